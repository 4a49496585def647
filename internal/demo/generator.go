// Package demo builds a synthetic investment dataset shaped like the built-in investment schema,
// encodes it as parquet and seeds it into the object store.
package demo

import (
	"fmt"
	"math"
	"math/rand"
	"time"
)

const (
	TableProjects     = "General_Project_Detail"
	TableShareholders = "ShareHolders_Country"
	TableAnnual       = "ANNUAT2024"

	// LastYear is the most recent reporting year written to the annual table.
	LastYear = 2024
)

// Tables lists the generated tables in seeding order.
func Tables() []string {
	return []string{TableProjects, TableShareholders, TableAnnual}
}

type Options struct {
	Seed         int64
	ProjectCount int
	Years        int
}

func DefaultOptions() Options {
	return Options{Seed: 42, ProjectCount: 200, Years: 3}
}

func (o Options) validate() error {
	if o.ProjectCount <= 0 {
		return fmt.Errorf("project count must be > 0")
	}
	if o.Years <= 0 || o.Years > 30 {
		return fmt.Errorf("years must be between 1 and 30")
	}
	return nil
}

type Dataset struct {
	Projects     []ProjectRow
	Shareholders []ShareholderRow
	Annual       []AnnualRow
}

// Rows returns the row count of each table.
func (d Dataset) Rows() map[string]int {
	return map[string]int{
		TableProjects:     len(d.Projects),
		TableShareholders: len(d.Shareholders),
		TableAnnual:       len(d.Annual),
	}
}

type Generator struct {
	rnd  *rand.Rand
	opts Options
}

func NewGenerator(opts Options) (*Generator, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}
	return &Generator{rnd: rand.New(rand.NewSource(opts.Seed)), opts: opts}, nil
}

var (
	statuses   = []string{"A1", "B1", "C1", "C2", "C3", "D1", "D2", "E1", "E1", "E1", "E1", "A0", "B0", "C4", "I1"}
	categories = []int64{21, 24, 61, 62, 63, 64, 71, 72, 74}
	sectors    = []string{"Manufacturing", "Apparel", "Infrastructure", "Knowledge Services", "Tourism & Leisure", "Utilities", "Services", "Agriculture"}
	countries  = []string{"JP", "CN", "IN", "US", "GB", "SG", "DE", "AU", "HK", "MY", "NL", "LK"}
	products   = map[string][]string{
		"Manufacturing":      {"Rubber gloves", "Tyres", "Ceramic tiles", "Electrical components"},
		"Apparel":            {"Knitted garments", "Intimate apparel", "Sportswear"},
		"Infrastructure":     {"Mixed development", "Port logistics", "Housing"},
		"Knowledge Services": {"Software development", "BPO services", "Data analytics"},
		"Tourism & Leisure":  {"Resort hotel", "Boutique villa", "Eco lodge"},
		"Utilities":          {"Solar power plant", "Mini hydro", "Wind farm"},
		"Services":           {"Warehousing", "Healthcare services", "Education"},
		"Agriculture":        {"Tea processing", "Spice exports", "Aquaculture"},
	}
	nameParts = []string{"Lanka", "Ceylon", "Serendib", "Ocean", "Lotus", "Summit", "Pearl", "Horizon", "Emerald", "Harbour"}
	nameKinds = []string{"Holdings", "Industries", "Ventures", "Exports", "Developers", "Technologies"}
)

// Generate produces the whole dataset. Two generators with the same options yield equal datasets.
func (g *Generator) Generate() Dataset {
	var ds Dataset
	for i := 1; i <= g.opts.ProjectCount; i++ {
		project := g.project(i)
		ds.Projects = append(ds.Projects, project)
		ds.Shareholders = append(ds.Shareholders, g.shareholders(project))
		if project.Project_Status == "E1" || project.Project_Status == "D2" {
			ds.Annual = append(ds.Annual, g.annual(project)...)
		}
	}
	return ds
}

func (g *Generator) project(seq int) ProjectRow {
	category := pickOne(g.rnd, categories)
	sector := pickOne(g.rnd, sectors)
	status := pickOne(g.rnd, statuses)
	projectType := "GEN"
	typeN := "GENN"
	if g.rnd.Intn(4) == 0 {
		projectType = "EXP"
		typeN = "EXPN"
	}

	submitted := time.Date(2010+g.rnd.Intn(14), time.Month(1+g.rnd.Intn(12)), 1+g.rnd.Intn(28), 0, 0, 0, 0, time.UTC)
	approval := submitted.AddDate(0, 1+g.rnd.Intn(6), 0)
	foreign := round2(50_000 + g.rnd.Float64()*20_000_000)
	local := round2(10_000 + g.rnd.Float64()*5_000_000)
	exportPct := float64(g.rnd.Intn(101))

	row := ProjectRow{
		Reference_Number:         fmt.Sprintf("%06d", seq),
		Reference_Number_N:       int64(seq),
		Project_Type:             projectType,
		Project_Type_N:           typeN,
		Project_Category:         fmt.Sprintf("%d", category),
		Project_Category_N:       category,
		Project_Name:             fmt.Sprintf("%s %s (Pvt) Ltd", pickOne(g.rnd, nameParts), pickOne(g.rnd, nameKinds)),
		Enterprise_Code:          fmt.Sprintf("ENT%05d", g.rnd.Intn(100000)),
		Project_Status:           status,
		Project_Officer_Code:     fmt.Sprintf("OFF%03d", 1+g.rnd.Intn(40)),
		Product_Description:      pickOne(g.rnd, products[sector]),
		Contact_Person:           fmt.Sprintf("Contact %03d", seq),
		Registration_Number:      fmt.Sprintf("PV%06d", 100000+g.rnd.Intn(900000)),
		Application_Submitted_Date: submitted,
		Est_Total_Investment_For: foreign,
		Est_Total_Investment_Loc: local,
		Est_Total_Manpower_For:   int64(g.rnd.Intn(50)),
		Est_Total_Manpower_Loc:   int64(10 + g.rnd.Intn(2000)),
		ISIC_Code:                fmt.Sprintf("%04d", 1000+g.rnd.Intn(9000)),
		NewSector:                sector,
		GICS:                     fmt.Sprintf("%08d", 10000000+g.rnd.Intn(90000000)),
		ExpPct:                   exportPct,
		LocPct:                   100 - exportPct,
	}
	if status != "A1" && status != "A0" {
		row.Board_Approval_Date = datePtr(approval.AddDate(0, 0, -7))
		row.Approval_Date = datePtr(approval)
	}
	if status >= "C1" && status != "B0" {
		row.Agreement_Date = datePtr(approval.AddDate(0, 2, 0))
	}
	if status >= "C2" && status != "B0" && status != "C4" {
		row.Implementation_Date = datePtr(approval.AddDate(0, 6, 0))
	}
	if status == "D2" || status == "E1" || status == "I1" {
		row.Commercial_Operation_Date = datePtr(approval.AddDate(1, 6, 0))
	}
	return row
}

func (g *Generator) shareholders(project ProjectRow) ShareholderRow {
	row := ShareholderRow{
		Reference_Number: project.Reference_Number,
		Project_Type:     project.Project_Type,
		Project_Category: project.Project_Category,
	}
	count := 1 + g.rnd.Intn(4)
	foreign := 0
	for slot := 0; slot < count; slot++ {
		country := pickOne(g.rnd, countries)
		if country != "LK" {
			foreign++
		}
		row.setSlot(slot,
			fmt.Sprintf("%s %s", pickOne(g.rnd, nameParts), pickOne(g.rnd, []string{"Capital", "Group", "Trading", "Investments"})),
			country,
			fmt.Sprintf("INV%06d", g.rnd.Intn(1000000)))
	}
	switch {
	case foreign == count:
		row.ShareHolder_Type = "Foreign"
	case foreign == 0:
		row.ShareHolder_Type = "Local"
	default:
		row.ShareHolder_Type = "Joint Venture"
	}
	return row
}

func (g *Generator) annual(project ProjectRow) []AnnualRow {
	rows := make([]AnnualRow, 0, g.opts.Years)
	base := project.Est_Total_Investment_For + project.Est_Total_Investment_Loc
	employees := project.Est_Total_Manpower_Loc + project.Est_Total_Manpower_For
	for year := LastYear - g.opts.Years + 1; year <= LastYear; year++ {
		growth := 0.8 + g.rnd.Float64()*0.5
		rows = append(rows, AnnualRow{
			REFNO:      project.Reference_Number,
			PRJTYPE:    project.Project_Type,
			PRJCAT:     project.Project_Category,
			YEAR:       int64(year),
			EXPVLUANU:  round2(base * project.ExpPct / 100 * growth * 0.3),
			EMPVLUANU:  int64(math.Round(float64(employees) * growth)),
			RMIMPANU:   round2(base * 0.1 * growth),
			LOCINVANU:  round2(project.Est_Total_Investment_Loc * 0.05 * growth),
			FORINVANU:  round2(project.Est_Total_Investment_For * 0.05 * growth),
			FOREQTYANU: round2(project.Est_Total_Investment_For * 0.4),
			LOCEQTYANU: round2(project.Est_Total_Investment_Loc * 0.4),
		})
	}
	return rows
}

func datePtr(value time.Time) *time.Time {
	return &value
}

func round2(value float64) float64 {
	return math.Round(value*100) / 100
}

func pickOne[T any](r *rand.Rand, values []T) T {
	return values[r.Intn(len(values))]
}
