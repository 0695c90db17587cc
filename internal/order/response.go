package order

import "github.com/tidwall/gjson"

// CountOrders reports how many orders a query response lists. The service
// answers with either a bare array or an object wrapping it under "orders".
func CountOrders(body []byte) (int, bool) {
	if !gjson.ValidBytes(body) {
		return 0, false
	}
	result := gjson.ParseBytes(body)
	if result.IsArray() {
		return len(result.Array()), true
	}
	if nested := result.Get("orders"); nested.IsArray() {
		return len(nested.Array()), true
	}
	return 0, false
}
