package bus

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"golang.org/x/text/language"
)

func TestClassify_Boundaries(t *testing.T) {
	now := at(8, 0, 0)

	tests := []struct {
		name string
		lead time.Duration
		want Bucket
	}{
		{name: "well ahead", lead: 2 * time.Hour, want: BucketAbsolute},
		{name: "exactly 30 minutes", lead: 30 * time.Minute, want: BucketAbsolute},
		{name: "just under 30 minutes", lead: 30*time.Minute - time.Second, want: BucketRelative},
		{name: "61 seconds", lead: 61 * time.Second, want: BucketRelative},
		{name: "exactly 1 minute", lead: time.Minute, want: BucketRelative},
		{name: "59 seconds", lead: 59 * time.Second, want: BucketArriving},
		{name: "now", lead: 0, want: BucketArriving},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(now.Add(tt.lead), now))
		})
	}
}

func TestDisplayTime(t *testing.T) {
	now := at(8, 0, 0)

	assert.Equal(t, "08:30", DisplayTime(now.Add(30*time.Minute), now, language.English))
	assert.Equal(t, "Arriving", DisplayTime(now.Add(59*time.Second), now, language.English))
	assert.Equal(t, "即將到站", DisplayTime(now.Add(59*time.Second), now, language.TraditionalChinese))
	assert.Equal(t, "1 minute", DisplayTime(now.Add(61*time.Second), now, language.English))
	assert.Equal(t, "12 minutes", DisplayTime(now.Add(12*time.Minute+10*time.Second), now, language.English))
	assert.Equal(t, "12 分鐘", DisplayTime(now.Add(12*time.Minute), now, language.MustParse("zh-TW")))
	assert.Equal(t, "29 minutes", DisplayTime(now.Add(29*time.Minute), now, language.Und))
}

func TestBucket_String(t *testing.T) {
	assert.Equal(t, "arriving", BucketArriving.String())
	assert.Equal(t, "unknown", Bucket(42).String())
}
