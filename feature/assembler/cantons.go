package assembler

import (
	"context"
	"fmt"
	"strings"

	"data-france/core/geometry"
	"data-france/core/ids"
	"data-france/core/join"
	"data-france/core/ordering"
	"data-france/core/sources"
	"data-france/core/tabular"
)

func codeOf(rec tabular.Record) (string, error) {
	return rec.Get("code"), nil
}

// normalizeGeometry re-encodes a geometry column as a multipolygon in WKB hex.
func normalizeGeometry(raw string) (string, error) {
	if raw == "" {
		return tabular.Null, nil
	}
	g, err := geometry.Decode(raw)
	if err != nil {
		return "", err
	}
	return geometry.Encode(g)
}

// buildCantons joins the sorted canton stream with the canton geometries.
func (a *Assembler) buildCantons(_ context.Context, s *Session) error {
	r, err := s.Source(sources.Cantons)
	if err != nil {
		return err
	}
	geo, err := s.Source(sources.CantonsGeometrie)
	if err != nil {
		return err
	}
	cursor := join.NewCursor[string, tabular.Record](geo, codeOf, strings.Compare)

	w, err := s.Output(Cantons, "id", "code", "type", "composition", "nom", "type_nom",
		"departement_id", "bureau_centralisateur_id", "geometry")
	if err != nil {
		return err
	}

	return each(r, func(rec tabular.Record) error {
		code := rec.Get("code")
		id, err := s.Allocate(Cantons, ids.Fields{"code": code})
		if err != nil {
			return err
		}
		departement, err := s.LookupCode(Departements, rec.Get("departement"))
		if err != nil {
			return err
		}
		bureau := tabular.Null
		if c := rec.Get("bureau_centralisateur"); c != "" {
			commune, ok, err := s.currentCommune(ordering.Commune, c)
			if err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf("bureau centralisateur %s: %w", c, ErrNotCurrentCommune)
			}
			bureau = commune
		}
		tn, err := typeNom(rec)
		if err != nil {
			return err
		}

		g, found, err := cursor.Seek(code)
		if err != nil {
			return err
		}
		hex := tabular.Null
		if found {
			if hex, err = normalizeGeometry(g.Get("geometry")); err != nil {
				return err
			}
		}

		return w.Write(id, code, rec.Get("type"), tabular.OrNull(rec.Get("composition")),
			rec.Get("nom"), tn, departement, bureau, hex)
	})
}
