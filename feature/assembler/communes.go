package assembler

import (
	"context"
	"strconv"

	"go.uber.org/zap"

	"data-france/core/join"
	"data-france/core/ordering"
	"data-france/core/reconcile"
	"data-france/core/sources"
	"data-france/core/tabular"
)

var communesColumns = []string{
	"id", "code", "type", "nom", "type_nom",
	"population_municipale", "population_cap",
	"departement_id", "commune_parent_id", "epci_id",
	"geometry",
	"mairie_adresse", "mairie_accessibilite", "mairie_accessibilite_details",
	"mairie_localisation", "mairie_horaires", "mairie_email", "mairie_telephone", "mairie_site",
}

// populations loads the census and replays the change-log after the census date, so
// that the tables are keyed by the current codes.
func (a *Assembler) populations(s *Session) (*reconcile.Tables, error) {
	census, err := a.build.Census()
	if err != nil {
		return nil, err
	}

	full, err := s.Source(sources.CommunesCensus)
	if err != nil {
		return nil, err
	}
	sub, err := s.Source(sources.SubCommunesCensus)
	if err != nil {
		return nil, err
	}
	tables, err := reconcile.LoadCensus(full, sub)
	if err != nil {
		return nil, err
	}

	changes, err := s.Source(sources.ChangeLog)
	if err != nil {
		return nil, err
	}
	events, err := reconcile.ParseChangeLog(changes, a.rules)
	if err != nil {
		return nil, err
	}

	summary, err := reconcile.NewEngine(tables).Replay(events, census)
	if err != nil {
		return nil, err
	}
	s.logger.Info("Populations reconciled",
		zap.Int("events", len(events)),
		zap.Int("before_census", summary.BeforeCensus),
		zap.Int("restorations", summary.Restorations),
		zap.Int("mergers", summary.Mergers),
		zap.Int("code_changes", summary.CodeChanges),
	)
	return tables, nil
}

func newKeyCursor(r *tabular.Reader) *join.Cursor[ordering.Key, tabular.Record] {
	return join.NewCursor[ordering.Key, tabular.Record](r, keyOf, ordering.Compare)
}

// buildCommunes joins the sorted commune stream with the consolidated geometries and
// the town-hall records, and attaches the reconciled populations.
func (a *Assembler) buildCommunes(_ context.Context, s *Session) error {
	tables, err := a.populations(s)
	if err != nil {
		return err
	}

	r, err := s.Source(sources.Communes)
	if err != nil {
		return err
	}
	geo, err := s.OpenIntermediate(CommunesGeometrie)
	if err != nil {
		return err
	}
	mairies, err := s.Source(sources.Mairies)
	if err != nil {
		return err
	}
	geoCursor := newKeyCursor(geo)
	mairieCursor := newKeyCursor(mairies)

	w, err := s.Output(Communes, communesColumns...)
	if err != nil {
		return err
	}

	return each(r, func(rec tabular.Record) error {
		key, err := keyOf(rec)
		if err != nil {
			return err
		}

		id, err := s.Allocate(Communes, communeFields(key.Kind, key.Code))
		if err != nil {
			return err
		}
		tn, err := typeNom(rec)
		if err != nil {
			return err
		}

		pmun, pcap := tabular.Null, tabular.Null
		if key.Kind != ordering.ElectoralSector {
			if p, ok := tables.Lookup(key); ok {
				pmun, pcap = strconv.Itoa(p.Municipale), strconv.Itoa(p.CAP)
			}
		}

		departement, err := s.LookupCode(Departements, rec.Get("departement"))
		if err != nil {
			return err
		}
		parent := tabular.Null
		if code := rec.Get("commune_parent"); code != "" {
			if parent, err = s.Lookup(Communes, communeFields(ordering.Commune, code)); err != nil {
				return err
			}
		}
		epci, err := s.LookupCode(EPCI, rec.Get("epci"))
		if err != nil {
			return err
		}

		g, found, err := geoCursor.Seek(key)
		if err != nil {
			return err
		}
		geom := tabular.Null
		if found {
			geom = tabular.OrNull(g.Get("geometry"))
		}

		m, found, err := mairieCursor.Seek(key)
		if err != nil {
			return err
		}
		if !found {
			m = tabular.Record{}
		}
		horaires := m.Get("horaires")
		if horaires == "" {
			horaires = "[]"
		}

		return w.Write(
			id, key.Code, key.Kind.String(), rec.Get("nom"), tn,
			pmun, pcap,
			departement, parent, epci,
			geom,
			m.Get("adresse"), m.Get("accessibilite"), m.Get("accessibilite_details"),
			tabular.OrNull(m.Get("localisation")), horaires, m.Get("email"), m.Get("telephone"), m.Get("site"),
		)
	})
}
