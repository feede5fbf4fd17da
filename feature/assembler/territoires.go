package assembler

import (
	"context"
	"strconv"
	"strings"

	"data-france/core/ids"
	"data-france/core/sources"
	"data-france/core/tabular"
)

func (a *Assembler) buildRegions(_ context.Context, s *Session) error {
	r, err := s.Source(sources.Regions)
	if err != nil {
		return err
	}
	w, err := s.Output(Regions, "id", "code", "nom", "type_nom", "chef_lieu_id")
	if err != nil {
		return err
	}

	return each(r, func(rec tabular.Record) error {
		code := rec.Get("code")
		id, err := s.Allocate(Regions, ids.Fields{"code": code})
		if err != nil {
			return err
		}
		chefLieu, err := s.chefLieu(rec.Get("chef_lieu"))
		if err != nil {
			return err
		}
		tn, err := typeNom(rec)
		if err != nil {
			return err
		}
		return w.Write(id, code, rec.Get("nom"), tn, chefLieu)
	})
}

func (a *Assembler) buildDepartements(_ context.Context, s *Session) error {
	r, err := s.Source(sources.Departements)
	if err != nil {
		return err
	}
	w, err := s.Output(Departements, "id", "code", "nom", "type_nom", "chef_lieu_id", "region_id")
	if err != nil {
		return err
	}

	return each(r, func(rec tabular.Record) error {
		code := rec.Get("code")
		id, err := s.Allocate(Departements, ids.Fields{"code": code})
		if err != nil {
			return err
		}
		chefLieu, err := s.chefLieu(rec.Get("chef_lieu"))
		if err != nil {
			return err
		}
		region, err := s.LookupCode(Regions, rec.Get("region"))
		if err != nil {
			return err
		}
		tn, err := typeNom(rec)
		if err != nil {
			return err
		}
		return w.Write(id, code, rec.Get("nom"), tn, chefLieu, region)
	})
}

func (a *Assembler) buildCollectivitesDepartementales(_ context.Context, s *Session) error {
	r, err := s.Source(sources.CollectivitesDepartementales)
	if err != nil {
		return err
	}
	w, err := s.Output(CollectivitesDepartementales, "id", "code", "type", "nom", "type_nom", "region_id")
	if err != nil {
		return err
	}

	return each(r, func(rec tabular.Record) error {
		code := rec.Get("code")
		id, err := s.Allocate(CollectivitesDepartementales, ids.Fields{"code": code})
		if err != nil {
			return err
		}
		region, err := s.LookupCode(Regions, rec.Get("region"))
		if err != nil {
			return err
		}
		tn, err := typeNom(rec)
		if err != nil {
			return err
		}
		// D: conseil départemental, S: collectivity with a special status
		kind := "S"
		if strings.HasSuffix(code, "D") {
			kind = "D"
		}
		return w.Write(id, code, kind, rec.Get("nom"), tn, region)
	})
}

func (a *Assembler) buildCollectivitesRegionales(_ context.Context, s *Session) error {
	r, err := s.Source(sources.Regions)
	if err != nil {
		return err
	}
	w, err := s.Output(CollectivitesRegionales, "id", "code", "nom", "region_id", "type_nom", "type")
	if err != nil {
		return err
	}

	ctus := a.overrides.CTUByRegion()
	return each(r, func(rec tabular.Record) error {
		region := rec.Get("code")
		regionID, err := s.LookupCode(Regions, region)
		if err != nil {
			return err
		}

		var code, nom, tn, kind string
		if ctu, ok := ctus[region]; ok {
			code, nom, tn, kind = ctu.Code, ctu.Nom, strconv.Itoa(ctu.TypeNom), "U"
		} else {
			regionTN, err := sources.ParseTypeNom(rec.Get("type_nom"))
			if err != nil {
				return err
			}
			libelle := rec.Get("libelle")
			if libelle == "" {
				libelle = rec.Get("nom")
			}
			code = region + "R"
			nom = "Conseil régional " + regionTN.WithCharniere(libelle)
			tn, kind = "2", "R"
		}

		id, err := s.Allocate(CollectivitesRegionales, ids.Fields{"code": code})
		if err != nil {
			return err
		}
		return w.Write(id, code, nom, regionID, tn, kind)
	})
}

func (a *Assembler) buildEPCI(_ context.Context, s *Session) error {
	r, err := s.Source(sources.EPCI)
	if err != nil {
		return err
	}
	w, err := s.Output(EPCI, "id", "code", "nom", "type")
	if err != nil {
		return err
	}

	return each(r, func(rec tabular.Record) error {
		code := rec.Get("code")
		id, err := s.Allocate(EPCI, ids.Fields{"code": code})
		if err != nil {
			return err
		}
		return w.Write(id, code, rec.Get("nom"), rec.Get("type"))
	})
}
