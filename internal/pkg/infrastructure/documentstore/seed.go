package documentstore

import (
	"context"

	"github.com/courseo/cartosync/pkg/types"
)

// Seed helpers push reference data into the store on startup. Existing
// documents are overwritten; ids are stable across deployments.

func SeedPoles(ctx context.Context, s *PgStore, poles []types.Pole) error {
	for _, p := range poles {
		err := s.Upsert(ctx, CollectionPoles, Document{
			ID:   p.ID,
			Data: map[string]any{"name": p.Name},
		})
		if err != nil {
			return err
		}
	}
	return nil
}

func SeedStyles(ctx context.Context, s *PgStore, styles []types.StylePreference) error {
	for _, st := range styles {
		err := s.Upsert(ctx, CollectionStyles, Document{
			ID: st.Type,
			Data: map[string]any{
				"type":  st.Type,
				"shape": st.Shape,
				"color": st.Color,
			},
		})
		if err != nil {
			return err
		}
	}
	return nil
}

func SeedSites(ctx context.Context, s *PgStore, sites []types.Site) error {
	for _, site := range sites {
		data := map[string]any{
			"name":       site.Name,
			"type":       site.Type,
			"pole":       site.Pole,
			"address":    site.Address,
			"city":       site.City,
			"postalCode": site.PostalCode,
		}
		if site.Location != nil {
			data["latitude"] = site.Location.Latitude
			data["longitude"] = site.Location.Longitude
		}

		err := s.Upsert(ctx, CollectionSites, Document{ID: site.ID, Data: data})
		if err != nil {
			return err
		}
	}
	return nil
}
