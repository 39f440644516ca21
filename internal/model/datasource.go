// internal/model/datasource.go
package model

import "time"

// Data source ids known to the connector façade.
const (
	SourceGoogleAds     = "google_ads"
	SourceFacebookPixel = "facebook_pixel"
	SourceWebsite       = "website"
)

// DataSourceBinding tracks one client's connection to one data source.
// Mutated only by explicit connect/disconnect; never shared across clients.
type DataSourceBinding struct {
	SourceID     string    `json:"source_id"`
	ConnectionID string    `json:"connection_id"`
	Connected    bool      `json:"connected"`
	RealData     bool      `json:"real_data"`
	ConnectedAt  time.Time `json:"connected_at"`
}

// DataSourceInfo describes an available source for the catalog endpoint.
type DataSourceInfo struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Status      string `json:"status"`
}
