// Package farm holds the durable farmer state: the single profile record and
// the append-only activity log, both backed by JSON documents in the store.
package farm

import (
	"fmt"

	"github.com/jeanpaul/krishisakhi/internal/store"
)

// profileSchema pins the on-disk shape of the profile document. Earlier
// revisions of the app disagreed on whether location was free text or a
// nested lat/lon pair; this schema settles on flat fields plus optional
// numeric coordinates, versioned for future migration.
const profileSchema = `{
	"type": "object",
	"properties": {
		"version":  {"type": "integer"},
		"name":     {"type": "string"},
		"location": {"type": "string"},
		"crop":     {"type": "string"},
		"soil":     {"type": "string"},
		"land":     {"type": "string"},
		"lat":      {"type": "number"},
		"lon":      {"type": "number"}
	},
	"additionalProperties": false
}`

const profileVersion = 1

// Profile describes the farmer and the farm. At most one profile exists per
// installation.
type Profile struct {
	Version  int     `json:"version"`
	Name     string  `json:"name"`
	Location string  `json:"location"`
	Crop     string  `json:"crop"`
	Soil     string  `json:"soil"`
	Land     string  `json:"land"` // acres, free text as entered
	Lat      float64 `json:"lat,omitempty"`
	Lon      float64 `json:"lon,omitempty"`
}

// Empty reports whether no identity field has been set. The chat assistant
// refuses to answer against an empty profile.
func (p Profile) Empty() bool {
	return p.Name == "" && p.Location == "" && p.Crop == "" && p.Soil == "" && p.Land == ""
}

// HasCoordinates reports whether a map pin or geolocation has been recorded.
func (p Profile) HasCoordinates() bool {
	return p.Lat != 0 || p.Lon != 0
}

// Profiles reads and writes the profile document.
type Profiles struct {
	store *store.Store
	name  string
}

// NewProfiles binds the profile document name to a store.
func NewProfiles(s *store.Store, name string) (*Profiles, error) {
	if err := s.RegisterSchema(name, profileSchema); err != nil {
		return nil, err
	}
	return &Profiles{store: s, name: name}, nil
}

// Get returns the stored profile, or a zero Profile when none has been saved
// yet. A corrupt document is an error, not an empty profile.
func (ps *Profiles) Get() (Profile, error) {
	var p Profile
	if _, err := ps.store.Load(ps.name, &p); err != nil {
		return Profile{}, err
	}
	return p, nil
}

// Save replaces the stored profile with p, persisting synchronously before
// returning the stored value.
//
// One exception to wholesale replacement: coordinates captured via the map
// or geolocation survive a save that carries none, so filling in the text
// form does not silently erase a pin.
func (ps *Profiles) Save(p Profile) (Profile, error) {
	if !p.HasCoordinates() {
		prev, err := ps.Get()
		if err != nil {
			return Profile{}, fmt.Errorf("load prior profile: %w", err)
		}
		p.Lat, p.Lon = prev.Lat, prev.Lon
	}
	p.Version = profileVersion
	if err := ps.store.Save(ps.name, p); err != nil {
		return Profile{}, err
	}
	return p, nil
}
