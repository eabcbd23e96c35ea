package storage

import (
	"time"

	"github.com/google/uuid"

	"github.com/openarchive/depot/pkg/query"
)

// SeedDemo populates a memory source with a small, internally consistent
// archival data set: one space, one pipeline, three locations and a pair
// of packages. Used by the development server.
func SeedDemo(s *MemorySource) error {
	spaceID := uuid.NewString()
	pipelineID := uuid.NewString()

	space := query.Record{
		"uuid":            spaceID,
		"access_protocol": "FS",
		"size":            int64(1 << 40),
		"used":            int64(1 << 30),
		"path":            "/var/depot/storage",
		"staging_path":    "/var/depot/staging",
		"verified":        true,
		"last_verified":   time.Now().UTC().Truncate(time.Second),
	}
	pipeline := query.Record{
		"uuid":         pipelineID,
		"description":  "Main processing pipeline",
		"remote_name":  "pipeline.internal",
		"api_username": "depot",
		"api_key":      uuid.NewString(),
		"enabled":      true,
		"location_set": []query.Record{},
	}

	locations := []query.Record{}
	for _, l := range []struct {
		purpose string
		path    string
		desc    string
	}{
		{"TS", "transfer-source", "Transfer source"},
		{"AS", "aip-storage", "AIP storage"},
		{"BL", "transfer-backlog", "Transfer backlog"},
	} {
		locations = append(locations, query.Record{
			"uuid":          uuid.NewString(),
			"space":         query.Record{"uuid": spaceID},
			"purpose":       l.purpose,
			"pipeline":      []query.Record{{"uuid": pipelineID}},
			"relative_path": l.path,
			"description":   l.desc,
			"quota":         nil,
			"used":          int64(0),
			"enabled":       true,
			"replicators":   []query.Record{},
			"masters":       []query.Record{},
		})
	}

	packages := []query.Record{
		{
			"uuid":            uuid.NewString(),
			"description":     "Annual report transfer",
			"origin_pipeline": query.Record{"uuid": pipelineID, "description": "Main processing pipeline"},
			"current_location": query.Record{
				"uuid": locations[1]["uuid"], "purpose": "AS",
			},
			"current_path": "annual-report.7z",
			"size":         int64(734003200),
			"package_type": "AIP",
			"status":       "UPLOADED",
			"replicas":     []query.Record{},
		},
		{
			"uuid":            uuid.NewString(),
			"description":     "Photograph backlog",
			"origin_pipeline": query.Record{"uuid": pipelineID, "description": "Main processing pipeline"},
			"current_location": query.Record{
				"uuid": locations[2]["uuid"], "purpose": "BL",
			},
			"current_path": "photographs/",
			"size":         int64(104857600),
			"package_type": "transfer",
			"status":       "STAGING",
			"replicas":     []query.Record{},
		},
	}

	if err := s.Put("spaces", space); err != nil {
		return err
	}
	if err := s.Put("pipelines", pipeline); err != nil {
		return err
	}
	for _, rec := range locations {
		if err := s.Put("locations", rec); err != nil {
			return err
		}
	}
	for _, rec := range packages {
		if err := s.Put("packages", rec); err != nil {
			return err
		}
	}
	return nil
}
