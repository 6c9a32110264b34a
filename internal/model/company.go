package model

import "time"

// Company is a masterlist record from the foundation database.
type Company struct {
	ISIN         string     `json:"isin"`
	Name         string     `json:"name"`
	Ticker       string     `json:"ticker"`
	Country      string     `json:"country"`
	Currency     string     `json:"currency"`
	Market       string     `json:"market"`
	ShareType    string     `json:"share_type"`
	Delisted     bool       `json:"delisted"`
	DelistedDate *time.Time `json:"delisted_date,omitempty"`
}

// CompanyInfo is the display subset of a masterlist record used to
// enrich dividend rows.
type CompanyInfo struct {
	Name     string `json:"name"`
	Ticker   string `json:"ticker"`
	Currency string `json:"currency"`
}
