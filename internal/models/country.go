// Package models defines data types shared by the route service, API and stores.
package models

// Country is one node of the border graph as shown to users.
type Country struct {
	Code string  `json:"code"`
	Name string  `json:"name"`
	Area float64 `json:"area"`
}
