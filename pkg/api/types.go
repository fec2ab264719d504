package api

import (
	"time"

	"github.com/tarekmohameddev/taearifv3-sub012/pkg/catalog"
	"github.com/tarekmohameddev/taearifv3-sub012/pkg/render"
	"github.com/tarekmohameddev/taearifv3-sub012/pkg/storage"
)

type GetTenantRequest struct {
	WebsiteName string `json:"websiteName"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

type SaveResponse struct {
	Message    string `json:"message"`
	RevisionID string `json:"revisionId"`
}

type PageResponse struct {
	WebsiteName string              `json:"websiteName"`
	Slug        string              `json:"slug"`
	Header      *render.Descriptor  `json:"header,omitempty"`
	Components  []render.Descriptor `json:"components"`
	Footer      *render.Descriptor  `json:"footer,omitempty"`
}

type CatalogResponse struct {
	Categories []string             `json:"categories"`
	Components []catalog.Descriptor `json:"components"`
	Count      int                  `json:"count"`
}

type TenantsResponse struct {
	WebsiteNames []string `json:"websiteNames"`
	Count        int      `json:"count"`
}

type RevisionsResponse struct {
	WebsiteName string             `json:"websiteName"`
	Revisions   []storage.Revision `json:"revisions"`
	Count       int                `json:"count"`
}

type HealthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Version   string    `json:"version"`
	Listeners int       `json:"listeners"`
}
