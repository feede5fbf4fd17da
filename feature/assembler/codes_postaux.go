package assembler

import (
	"context"
	"sort"

	"go.uber.org/zap"

	"data-france/core/ids"
	"data-france/core/ordering"
	"data-france/core/sources"
	"data-france/core/tabular"
)

// communeByCode resolves an INSEE code to the commune-like entity of highest precedence
// carrying it in the current code. ok is false when no such entity has that code.
func communeByCode(s *Session, code string) (id string, ok bool, err error) {
	for _, kind := range []ordering.Kind{
		ordering.Commune, ordering.MunicipalArrondissement,
		ordering.AssociatedCommune, ordering.DelegatedCommune,
	} {
		id, ok, err := s.currentCommune(kind, code)
		if err != nil || ok {
			return id, ok, err
		}
	}
	return "", false, nil
}

type postalLink struct {
	code    string
	commune string
}

// buildCodesPostaux writes the postal codes and their relation to communes. Postal
// codes are numbered in code order; links to communes outside the current code are
// dropped.
func (a *Assembler) buildCodesPostaux(_ context.Context, s *Session) error {
	r, err := s.Source(sources.CodesPostaux)
	if err != nil {
		return err
	}

	codes := make(map[string]bool)
	links := make(map[postalLink]bool)
	skipped := 0

	err = each(r, func(rec tabular.Record) error {
		code := rec.Get("code")
		if code == "" {
			return nil
		}
		codes[code] = true

		commune, ok, err := communeByCode(s, a.overrides.CorrectCode(rec.Get("commune")))
		if err != nil {
			return err
		}
		if !ok {
			skipped++
			return nil
		}
		links[postalLink{code: code, commune: commune}] = true
		return nil
	})
	if err != nil {
		return err
	}
	if skipped > 0 {
		s.logger.Warn("Postal rows without a known commune", zap.Int("rows", skipped))
	}

	sorted := make([]string, 0, len(codes))
	for c := range codes {
		sorted = append(sorted, c)
	}
	sort.Strings(sorted)

	w, err := s.Output(CodesPostaux, "id", "code")
	if err != nil {
		return err
	}
	idOf := make(map[string]string, len(sorted))
	for _, c := range sorted {
		id, err := s.Allocate(CodesPostaux, ids.Fields{"code": c})
		if err != nil {
			return err
		}
		idOf[c] = id
		if err := w.Write(id, c); err != nil {
			return err
		}
	}

	ordered := make([]postalLink, 0, len(links))
	for l := range links {
		ordered = append(ordered, l)
	}
	sort.Slice(ordered, func(i, j int) bool {
		if ordered[i].code != ordered[j].code {
			return ordered[i].code < ordered[j].code
		}
		if len(ordered[i].commune) != len(ordered[j].commune) {
			return len(ordered[i].commune) < len(ordered[j].commune)
		}
		return ordered[i].commune < ordered[j].commune
	})

	rel, err := s.Output(CodesPostauxCommunes, "codepostal_id", "commune_id")
	if err != nil {
		return err
	}
	for _, l := range ordered {
		if err := rel.Write(idOf[l.code], l.commune); err != nil {
			return err
		}
	}
	return nil
}
