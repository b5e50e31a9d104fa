package client

// CountryName holds the name variants the API returns.
type CountryName struct {
	Common   string `json:"common"`
	Official string `json:"official"`
}

// Country is one entry of the /all listing, restricted to the fields we request.
type Country struct {
	Name CountryName `json:"name"`
	CCA3 string      `json:"cca3"`
	Area float64     `json:"area"`
}

// BordersResponse is the body of /alpha/{code}?fields=borders.
// Borders is nil when the field is absent, and empty for island nations.
type BordersResponse struct {
	Borders *[]string `json:"borders"`
}
