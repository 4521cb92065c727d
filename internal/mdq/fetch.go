package mdq

import (
	"encoding/xml"
	"fmt"
	"net/url"

	"github.com/ScottyLabs/terrier/internal/bindings"
	"github.com/ScottyLabs/terrier/internal/samlxml"
)

// ParseMetadata unmarshals a single EntityDescriptor document, adapted
// from the teacher's samlsp.ParseMetadata: if the document turns out to be
// an EntitiesDescriptor wrapper around one entity (some MDQ servers do
// this), fall back to unwrapping it rather than failing. The comparison
// against encoding/xml's own error string is exactly how the teacher
// disambiguates the two cases.
func ParseMetadata(data []byte) (*samlxml.EntityDescriptor, error) {
	if err := bindings.ValidateXML(data); err != nil {
		return nil, err
	}

	desc := &samlxml.EntityDescriptor{}
	err := xml.Unmarshal(data, desc)
	if err == nil {
		return desc, nil
	}
	if err.Error() != "expected element type <EntityDescriptor> but have <EntitiesDescriptor>" {
		return nil, fmt.Errorf("mdq: parsing entity descriptor: %w", err)
	}

	entities := &samlxml.EntitiesDescriptor{}
	if err := xml.Unmarshal(data, entities); err != nil {
		return nil, fmt.Errorf("mdq: parsing entities descriptor: %w", err)
	}
	if len(entities.EntityDescriptors) == 0 {
		return nil, fmt.Errorf("mdq: entities descriptor contained no entity")
	}
	return &entities.EntityDescriptors[0], nil
}

// buildEntityURL constructs the per-entity MDQ lookup URL for entityID.
func buildEntityURL(mdqBaseURL, entityID string) string {
	return fmt.Sprintf("%s/entities/%s", mdqBaseURL, url.PathEscape(entityID))
}
