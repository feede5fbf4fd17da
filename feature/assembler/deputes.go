package assembler

import (
	"context"

	"data-france/core/ids"
	"data-france/core/sources"
	"data-france/core/tabular"
	"data-france/core/utils"
)

// membership is the current group or party of a deputy.
type membership struct {
	label    string
	relation string
}

// organisations reads an organisation table into labels "nom (sigle)" keyed by code.
func organisations(s *Session, source string) (map[string]string, error) {
	r, err := s.Source(source)
	if err != nil {
		return nil, err
	}
	labels := make(map[string]string)
	err = each(r, func(rec tabular.Record) error {
		labels[rec.Get("code")] = utils.Labelled(rec.Get("nom"), rec.Get("sigle"))
		return nil
	})
	return labels, err
}

// memberships reads the open memberships (no end date) of each deputy. When a deputy
// holds several, the highest relation wins (P, president, over M, member), then the
// last one listed.
func memberships(s *Session, source string, labels map[string]string) (map[string]membership, error) {
	r, err := s.Source(source)
	if err != nil {
		return nil, err
	}
	out := make(map[string]membership)
	err = each(r, func(rec tabular.Record) error {
		if rec.Has("date_fin") {
			return nil
		}
		depute := rec.Get("code_depute")
		m := membership{label: labels[rec.Get("code")], relation: rec.Get("relation")}
		if prev, ok := out[depute]; ok && prev.relation > m.relation {
			return nil
		}
		out[depute] = m
		return nil
	})
	return out, err
}

func (a *Assembler) buildDeputes(_ context.Context, s *Session) error {
	groupes, err := organisations(s, sources.Groupes)
	if err != nil {
		return err
	}
	partis, err := organisations(s, sources.Partis)
	if err != nil {
		return err
	}
	deputesGroupes, err := memberships(s, sources.DeputesGroupes, groupes)
	if err != nil {
		return err
	}
	deputesPartis, err := memberships(s, sources.DeputesPartis, partis)
	if err != nil {
		return err
	}

	r, err := s.Source(sources.Deputes)
	if err != nil {
		return err
	}
	w, err := s.Output(Deputes, "id", "circonscription_id", "code", "nom", "prenom", "sexe",
		"date_naissance", "legislature", "date_debut_mandat", "groupe", "parti",
		"date_fin_mandat", "relation", "profession")
	if err != nil {
		return err
	}

	return each(r, func(rec tabular.Record) error {
		code := rec.Get("code")
		id, err := s.Allocate(Deputes, ids.Fields{"code": code})
		if err != nil {
			return err
		}
		circonscription, err := s.LookupCode(CirconscriptionsLegislatives, rec.Get("circonscription"))
		if err != nil {
			return err
		}
		p, err := personOf(rec)
		if err != nil {
			return err
		}
		debut, err := normalizeDate(rec.Get("date_debut_mandat"))
		if err != nil {
			return err
		}
		fin, err := normalizeDate(rec.Get("date_fin_mandat"))
		if err != nil {
			return err
		}

		groupe := deputesGroupes[code]
		return w.Write(
			id, circonscription, code, p.nom, p.prenom, p.sexe, p.naissance,
			rec.Get("legislature"), debut,
			groupe.label, deputesPartis[code].label,
			tabular.OrNull(fin), groupe.relation, tabular.Null,
		)
	})
}
