package assembler

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/twpayne/go-geom/encoding/geojson"

	"data-france/core/geometry"
	"data-france/core/ids"
	"data-france/core/sources"
	"data-france/core/tabular"
	"data-france/core/utils"
)

// Source of the legislative constituency contours, a GeoJSON feature collection whose
// features carry the code_dpt and num_circ properties.
const circonscriptionsContours = "circonscriptions_legislatives"

type circonscription struct {
	code        string
	departement string
	geometry    string
}

// property returns a GeoJSON property as a string; numbers are rendered without decimals.
func property(f *geojson.Feature, name string) (string, error) {
	switch v := f.Properties[name].(type) {
	case string:
		return v, nil
	case float64:
		return fmt.Sprintf("%.0f", v), nil
	case nil:
		return "", fmt.Errorf("feature %s: missing property %s", f.ID, name)
	default:
		return fmt.Sprint(v), nil
	}
}

func (a *Assembler) circonscriptionCode(f *geojson.Feature) (code, departement string, err error) {
	dpt, err := property(f, "code_dpt")
	if err != nil {
		return "", "", err
	}
	num, err := property(f, "num_circ")
	if err != nil {
		return "", "", err
	}
	num, err = utils.PadNumber(num, 2)
	if err != nil {
		return "", "", err
	}
	dep, isDepartement := a.overrides.Department(dpt)
	if !isDepartement {
		return dep + "-" + num, "", nil
	}
	return dep + "-" + num, dep, nil
}

// buildCirconscriptionsLegislatives writes the constituencies sorted by code, followed
// by the constituencies of French people abroad, which have neither department nor
// contour.
func (a *Assembler) buildCirconscriptionsLegislatives(_ context.Context, s *Session) error {
	f, err := s.OpenFile(circonscriptionsContours)
	if err != nil {
		return err
	}
	var fc geojson.FeatureCollection
	if err := json.NewDecoder(f).Decode(&fc); err != nil {
		return fmt.Errorf("%s: %w", circonscriptionsContours, err)
	}

	rows := make([]circonscription, 0, len(fc.Features)+a.overrides.AbroadConstituencies)
	for _, feature := range fc.Features {
		code, dep, err := a.circonscriptionCode(feature)
		if err != nil {
			return err
		}
		hex := tabular.Null
		if feature.Geometry != nil {
			if hex, err = geometry.Encode(feature.Geometry); err != nil {
				return fmt.Errorf("%s: %w", code, err)
			}
		}
		rows = append(rows, circonscription{code: code, departement: dep, geometry: hex})
	}
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].code < rows[j].code })

	for i := 1; i <= a.overrides.AbroadConstituencies; i++ {
		rows = append(rows, circonscription{code: fmt.Sprintf("99-%02d", i), geometry: tabular.Null})
	}

	w, err := s.Output(CirconscriptionsLegislatives, "id", "code", "departement_id", "geometry")
	if err != nil {
		return err
	}
	for _, c := range rows {
		id, err := s.Allocate(CirconscriptionsLegislatives, ids.Fields{"code": c.code})
		if err != nil {
			return err
		}
		departement, err := s.LookupCode(Departements, c.departement)
		if err != nil {
			return fmt.Errorf("%s: %w", c.code, err)
		}
		if err := w.Write(id, c.code, departement, c.geometry); err != nil {
			return err
		}
	}
	return nil
}

func (a *Assembler) buildCirconscriptionsConsulaires(_ context.Context, s *Session) error {
	r, err := s.Source(sources.CirconscriptionsConsulaires)
	if err != nil {
		return err
	}
	w, err := s.Output(CirconscriptionsConsulaires, "id", "nom", "consulats", "nombre_conseillers",
		"pays", "circonscription_legislative_id")
	if err != nil {
		return err
	}

	return each(r, func(rec tabular.Record) error {
		nom := rec.Get("nom")
		id, err := s.Allocate(CirconscriptionsConsulaires, ids.Fields{"nom": nom})
		if err != nil {
			return err
		}
		legislative, err := s.LookupCode(CirconscriptionsLegislatives, rec.Get("circonscription_legislative"))
		if err != nil {
			return err
		}
		consulats := utils.PGArray(utils.SplitList(rec.Get("consulats"), "/"))
		return w.Write(id, nom, consulats, rec.Get("nombre_conseillers"), rec.Get("pays"), legislative)
	})
}
