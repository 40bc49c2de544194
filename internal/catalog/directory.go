package catalog

import (
	"cmp"
	"slices"
	"strings"

	"github.com/agnivade/levenshtein"

	"finboard/internal"
	"finboard/internal/storage"
	"finboard/internal/util"
)

const maxCandidates = 200

// Directory answers company lookups from the stored reference list.
type Directory struct {
	db *storage.DB
}

func NewDirectory(db *storage.DB) *Directory {
	return &Directory{db: db}
}

type rankedCompany struct {
	company internal.Company
	tier    int
	dist    int
}

// Search returns up to limit companies, best match first: code or exact name,
// then names starting with the query, then by edit distance to the query.
func (d *Directory) Search(query string, limit int) ([]internal.Company, error) {
	query = strings.TrimSpace(query)
	if limit <= 0 {
		limit = 20
	}

	candidates, err := d.db.SearchCompanies(query, min(limit*5, maxCandidates))
	if err != nil {
		return nil, err
	}

	norm := util.NormalizeCompanyName(query)
	ranked := make([]rankedCompany, 0, len(candidates))
	for _, c := range candidates {
		ranked = append(ranked, rank(c, query, norm))
	}

	slices.SortStableFunc(ranked, func(a, b rankedCompany) int {
		return cmp.Or(
			cmp.Compare(a.tier, b.tier),
			cmp.Compare(a.dist, b.dist),
			cmp.Compare(len([]rune(a.company.CorpName)), len([]rune(b.company.CorpName))),
			strings.Compare(a.company.CorpName, b.company.CorpName),
		)
	})

	out := make([]internal.Company, 0, min(limit, len(ranked)))
	for i := 0; i < len(ranked) && i < limit; i++ {
		out = append(out, ranked[i].company)
	}
	return out, nil
}

func rank(c internal.Company, query, norm string) rankedCompany {
	name := util.NormalizeCompanyName(c.CorpName)
	eng := util.NormalizeCompanyName(c.CorpEngName)

	r := rankedCompany{company: c, tier: 3}
	switch {
	case c.CorpCode == query || (c.StockCode != "" && c.StockCode == query):
		r.tier = 0
	case norm != "" && (name == norm || eng == norm):
		r.tier = 1
	case norm != "" && (strings.HasPrefix(name, norm) || strings.HasPrefix(eng, norm)):
		r.tier = 2
	}

	r.dist = levenshtein.ComputeDistance(norm, name)
	if eng != "" {
		r.dist = min(r.dist, levenshtein.ComputeDistance(norm, eng))
	}
	return r
}

func (d *Directory) Company(corpCode string) (*internal.Company, error) {
	return d.db.GetCompany(corpCode)
}

func (d *Directory) Stats() (internal.DirectoryStats, error) {
	return d.db.Stats()
}
