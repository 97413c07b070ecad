package bus

// RouteSummary holds the next few arrivals of a single route at a stop.
type RouteSummary struct {
	RouteCode string
	Route     Route
	Arrivals  []ScheduleItem
}

// Summarize groups time-sorted items by route, keeping at most maxPerRoute
// arrivals each. Routes are ordered by their earliest arrival so a frequent
// route cannot push a rarer one off the screen.
func Summarize(items []ScheduleItem, maxPerRoute int) []RouteSummary {
	routeMap := make(map[string]*RouteSummary)
	var routeKeys []string

	for _, it := range items {
		if it.Arrival.IsZero() {
			continue
		}
		if _, exists := routeMap[it.RouteCode]; !exists {
			routeMap[it.RouteCode] = &RouteSummary{
				RouteCode: it.RouteCode,
				Route:     it.Route,
			}
			routeKeys = append(routeKeys, it.RouteCode)
		}

		if len(routeMap[it.RouteCode].Arrivals) < maxPerRoute {
			routeMap[it.RouteCode].Arrivals = append(routeMap[it.RouteCode].Arrivals, it)
		}
	}

	var result []RouteSummary
	for _, key := range routeKeys {
		result = append(result, *routeMap[key])
	}
	return result
}
