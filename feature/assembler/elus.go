package assembler

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"data-france/core/ids"
	"data-france/core/ordering"
	"data-france/core/reconcile"
	"data-france/core/sources"
	"data-france/core/tabular"
	"data-france/core/utils"
)

// normalizeDate rewrites DD/MM/YYYY dates as YYYY-MM-DD. Empty values stay empty.
func normalizeDate(s string) (string, error) {
	if s == "" {
		return "", nil
	}
	d, err := reconcile.ParseDate(s)
	if err != nil {
		return "", err
	}
	return d.Format(time.DateOnly), nil
}

// person is the identity part of an elected official.
type person struct {
	nom       string
	prenom    string
	sexe      string
	naissance string
}

func personOf(rec tabular.Record) (person, error) {
	naissance, err := normalizeDate(rec.Get("date_naissance"))
	if err != nil {
		return person{}, err
	}
	return person{
		nom:       utils.NFC(rec.Get("nom")),
		prenom:    utils.NFC(rec.Get("prenom")),
		sexe:      rec.Get("sexe"),
		naissance: naissance,
	}, nil
}

// key returns the natural key of the official, scoped by the id of the seat holder.
func (p person) key(scopeColumn, scopeID string) ids.Fields {
	f := ids.Fields{
		"nom":            p.nom,
		"prenom":         p.prenom,
		"sexe":           p.sexe,
		"date_naissance": p.naissance,
	}
	if scopeColumn != "" {
		f[scopeColumn] = scopeID
	}
	return f
}

// mandate reads the mandate columns shared by the local officials. Empty optional
// columns become Null.
func mandate(rec tabular.Record) ([]string, error) {
	debutMandat, err := normalizeDate(rec.Get("date_debut_mandat"))
	if err != nil {
		return nil, err
	}
	debutFonction, err := normalizeDate(rec.Get("date_debut_fonction"))
	if err != nil {
		return nil, err
	}
	return []string{
		tabular.OrNull(rec.Get("profession")),
		debutMandat,
		rec.Get("fonction"),
		tabular.OrNull(rec.Get("ordre_fonction")),
		tabular.OrNull(debutFonction),
	}, nil
}

var mandateColumns = []string{
	"nom", "prenom", "sexe", "date_naissance",
	"profession", "date_debut_mandat", "fonction", "ordre_fonction", "date_debut_fonction",
}

func (a *Assembler) buildElusMunicipaux(_ context.Context, s *Session) error {
	r, err := s.Source(sources.ElusMunicipaux)
	if err != nil {
		return err
	}
	columns := append([]string{"id", "commune_id"}, mandateColumns...)
	columns = append(columns, "date_debut_mandat_epci", "fonction_epci", "date_debut_fonction_epci",
		"nationalite", "parrainage2017")
	w, err := s.Output(ElusMunicipaux, columns...)
	if err != nil {
		return err
	}

	skipped := 0
	err = each(r, func(rec tabular.Record) error {
		code := a.overrides.CorrectCode(rec.Get("code"))
		commune, ok, err := s.currentCommune(ordering.Commune, code)
		if err != nil {
			return err
		}
		if !ok {
			skipped++
			return nil
		}

		p, err := personOf(rec)
		if err != nil {
			return err
		}
		m, err := mandate(rec)
		if err != nil {
			return err
		}
		debutMandatEPCI, err := normalizeDate(rec.Get("date_debut_mandat_epci"))
		if err != nil {
			return err
		}
		debutFonctionEPCI, err := normalizeDate(rec.Get("date_debut_fonction_epci"))
		if err != nil {
			return err
		}

		id, err := s.Allocate(ElusMunicipaux, p.key("commune_id", commune))
		if err != nil {
			return err
		}

		row := []string{id, commune, p.nom, p.prenom, p.sexe, p.naissance}
		row = append(row, m...)
		row = append(row,
			tabular.OrNull(debutMandatEPCI), rec.Get("fonction_epci"), tabular.OrNull(debutFonctionEPCI),
			rec.Get("nationalite"), rec.Get("parrainage2017"),
		)
		return w.Write(row...)
	})
	if skipped > 0 {
		s.logger.Warn("Officials of unknown communes skipped", zap.Int("rows", skipped))
	}
	return err
}

func (a *Assembler) buildElusDepartementaux(_ context.Context, s *Session) error {
	r, err := s.Source(sources.ElusDepartementaux)
	if err != nil {
		return err
	}
	w, err := s.Output(ElusDepartementaux, append([]string{"id", "canton_id"}, mandateColumns...)...)
	if err != nil {
		return err
	}

	return each(r, func(rec tabular.Record) error {
		canton, err := s.Lookup(Cantons, ids.Fields{"code": rec.Get("code")})
		if err != nil {
			return err
		}
		p, err := personOf(rec)
		if err != nil {
			return err
		}
		m, err := mandate(rec)
		if err != nil {
			return err
		}
		id, err := s.Allocate(ElusDepartementaux, p.key("canton_id", canton))
		if err != nil {
			return err
		}
		return w.Write(append([]string{id, canton, p.nom, p.prenom, p.sexe, p.naissance}, m...)...)
	})
}

// sectionCode maps the departmental section of a regional list onto the code of a
// departmental collectivity: Paris is 75C, metropolitan councils take a D suffix and
// the single collectivities (codes ending in E or M) are kept.
func sectionCode(code string) string {
	switch {
	case code == "":
		return ""
	case code == "75":
		return "75C"
	case strings.HasSuffix(code, "E"), strings.HasSuffix(code, "M"):
		return code
	default:
		return code + "D"
	}
}

func (a *Assembler) buildElusRegionaux(_ context.Context, s *Session) error {
	r, err := s.Source(sources.ElusRegionaux)
	if err != nil {
		return err
	}
	columns := append([]string{"id", "collectivite_regionale_id", "collectivite_departementale_id"}, mandateColumns...)
	w, err := s.Output(ElusRegionaux, columns...)
	if err != nil {
		return err
	}

	ctus := a.overrides.CTUByRegion()
	return each(r, func(rec tabular.Record) error {
		region := rec.Get("code")
		colreg := region + "R"
		if ctu, ok := ctus[region]; ok {
			colreg = ctu.Code
		}
		colregID, err := s.LookupCode(CollectivitesRegionales, colreg)
		if err != nil {
			return err
		}
		coldepID, err := s.LookupCode(CollectivitesDepartementales, sectionCode(rec.Get("code_sec")))
		if err != nil {
			return err
		}

		p, err := personOf(rec)
		if err != nil {
			return err
		}
		m, err := mandate(rec)
		if err != nil {
			return err
		}
		id, err := s.Allocate(ElusRegionaux, p.key("collectivite_regionale_id", colregID))
		if err != nil {
			return err
		}
		return w.Write(append([]string{id, colregID, coldepID, p.nom, p.prenom, p.sexe, p.naissance}, m...)...)
	})
}

func (a *Assembler) buildDeputesEuropeens(_ context.Context, s *Session) error {
	r, err := s.Source(sources.DeputesEuropeens)
	if err != nil {
		return err
	}
	w, err := s.Output(DeputesEuropeens, "id", "nom", "prenom", "sexe", "date_naissance",
		"profession", "date_debut_mandat")
	if err != nil {
		return err
	}

	return each(r, func(rec tabular.Record) error {
		p, err := personOf(rec)
		if err != nil {
			return err
		}
		debut, err := normalizeDate(rec.Get("date_debut_mandat"))
		if err != nil {
			return err
		}
		id, err := s.Allocate(DeputesEuropeens, p.key("", ""))
		if err != nil {
			return err
		}
		return w.Write(id, p.nom, p.prenom, p.sexe, p.naissance, tabular.OrNull(rec.Get("profession")), debut)
	})
}
