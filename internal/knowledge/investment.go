package knowledge

const countryPlaceholder = "@country_code"

var activeStatuses = []string{"A1", "B1", "C1", "C2", "C3", "D1", "D2", "E1"}

func investmentDefinition() Definition {
	return Definition{
		Name:     "investment",
		Title:    "BOI Sri Lanka Investment Database Schema",
		Database: "cdsd",
		Domain:   "BOI Sri Lanka (Board of Investment) investment project data",
		Dialect:  DialectSQLServer,
		Tables: []Table{
			{
				Name:    "General_Project_Detail",
				Purpose: "Main project information repository: project details, estimated investment and employment, status tracking.",
				Columns: []Column{
					{Name: "Reference_Number", Role: RoleIdentifier, Description: "Unique project identifier, may have leading zeros (composite key with Project_Type, Project_Category)"},
					{Name: "Reference_Number_N", Role: RoleIdentifier, Description: "Numeric form of Reference_Number"},
					{Name: "Project_Type", Role: RoleCode, Description: "Type classification of the project"},
					{Name: "Project_Type_N", Role: RoleCode, Description: "Normalized project type; 'GENN' marks new projects"},
					{Name: "Project_Category", Role: RoleCode, Description: "Category classification (see Project Categories)"},
					{Name: "Project_Category_N", Role: RoleCode, Description: "Numeric form of Project_Category"},
					{Name: "Project_Name", Role: RoleText, Description: "Official name of the investment project"},
					{Name: "Enterprise_Code", Role: RoleCode, Description: "Business enterprise identifier"},
					{Name: "Project_Status", Role: RoleCode, Description: "Current status (see Project Status Codes)"},
					{Name: "Project_Officer_Code", Role: RoleCode, Description: "Assigned BOI officer identifier"},
					{Name: "Product_Description", Role: RoleText, Description: "Description of products/services"},
					{Name: "Contact_Person", Role: RoleText, Description: "Primary contact for the project"},
					{Name: "Registration_Number", Role: RoleCode, Description: "Official registration number"},
					{Name: "Application_Submitted_Date", Role: RoleDate, Description: "When the application was submitted"},
					{Name: "Board_Approval_Date", Role: RoleDate, Description: "Date of board approval"},
					{Name: "Approval_Date", Role: RoleDate, Description: "Official approval date"},
					{Name: "Agreement_Date", Role: RoleDate, Description: "Agreement signing date"},
					{Name: "Implementation_Date", Role: RoleDate, Description: "Project implementation start"},
					{Name: "Commercial_Operation_Date", Role: RoleDate, Description: "Commercial operations start"},
					{Name: "Est_Total_Investment_For", Role: RoleAmount, Description: "Estimated foreign investment amount"},
					{Name: "Est_Total_Investment_Loc", Role: RoleAmount, Description: "Estimated local investment amount"},
					{Name: "Est_Total_Manpower_For", Role: RoleCount, Description: "Estimated foreign employment count"},
					{Name: "Est_Total_Manpower_Loc", Role: RoleCount, Description: "Estimated local employment count"},
					{Name: "ISIC_Code", Role: RoleCode, Description: "International Standard Industrial Classification"},
					{Name: "NewSector", Role: RoleCode, Description: "Sector classification (Manufacturing, Apparel, Infrastructure, Knowledge Services, Tourism & Leisure, Utilities, Services, Agriculture)"},
					{Name: "GICS", Role: RoleCode, Description: "Global Industry Classification Standard"},
					{Name: "ExpPct", Role: RoleRatio, Description: "Export percentage"},
					{Name: "LocPct", Role: RoleRatio, Description: "Local percentage"},
				},
			},
			{
				Name:    "ShareHolders_Country",
				Purpose: "Shareholder details and country origins for investment analysis.",
				Columns: []Column{
					{Name: "Reference_Number", Role: RoleReference, Description: "Links to General_Project_Detail"},
					{Name: "Project_Type", Role: RoleReference, Description: "Project classification"},
					{Name: "Project_Category", Role: RoleReference, Description: "Project classification"},
					{Name: "Share_Holder_Name1-15", Role: RoleText, Description: "Up to 15 shareholder names (Share_Holder_Name1 .. Share_Holder_Name15)"},
					{Name: "Country_Code1-15", Role: RoleCode, Description: "Corresponding country codes (Country_Code1 .. Country_Code15, see Country Codes)"},
					{Name: "ShareHolder_Type", Role: RoleCode, Description: "Type of shareholder ('Foreign', 'Joint Venture', 'Local')"},
					{Name: "Investor_Number1-15", Role: RoleCode, Description: "Investor identification numbers (Investor_Number1 .. Investor_Number15)"},
				},
			},
			{
				Name:    "ANNUAT2024",
				Purpose: "Annual performance tracking: exports, employment and investments per project and year.",
				Columns: []Column{
					{Name: "REFNO", Role: RoleReference, Description: "Reference number linking to General_Project_Detail"},
					{Name: "PRJTYPE", Role: RoleReference, Description: "Project type"},
					{Name: "PRJCAT", Role: RoleReference, Description: "Project category"},
					{Name: "YEAR", Role: RoleDate, Description: "Reporting year"},
					{Name: "EXPVLUANU", Role: RoleAmount, Description: "Annual export value (currency units)"},
					{Name: "EMPVLUANU", Role: RoleCount, Description: "Annual employment figures (number of employees)"},
					{Name: "RMIMPANU", Role: RoleAmount, Description: "Raw material imports annually (currency units)"},
					{Name: "LOCINVANU", Role: RoleAmount, Description: "Local investment annually (currency units)"},
					{Name: "FORINVANU", Role: RoleAmount, Description: "Foreign investment annually (currency units)"},
					{Name: "FOREQTYANU", Role: RoleAmount, Description: "Foreign equity annually (currency units)"},
					{Name: "LOCEQTYANU", Role: RoleAmount, Description: "Local equity annually (currency units)"},
				},
			},
		},
		Relationships: []Relationship{
			{FromTable: "ShareHolders_Country", FromColumn: "Reference_Number", ToTable: "General_Project_Detail", ToColumn: "Reference_Number"},
			{FromTable: "ShareHolders_Country", FromColumn: "Project_Type", ToTable: "General_Project_Detail", ToColumn: "Project_Type"},
			{FromTable: "ShareHolders_Country", FromColumn: "Project_Category", ToTable: "General_Project_Detail", ToColumn: "Project_Category"},
			{FromTable: "ANNUAT2024", FromColumn: "REFNO", ToTable: "General_Project_Detail", ToColumn: "Reference_Number"},
			{FromTable: "ANNUAT2024", FromColumn: "PRJTYPE", ToTable: "General_Project_Detail", ToColumn: "Project_Type"},
			{FromTable: "ANNUAT2024", FromColumn: "PRJCAT", ToTable: "General_Project_Detail", ToColumn: "Project_Category"},
		},
		CodeTables: []CodeTable{
			{
				Name:   "Project Status Codes",
				Column: "Project_Status",
				Codes: []Code{
					{Code: "A1", Label: "Awaiting Approval"},
					{Code: "B1", Label: "Approved/Awaiting Agreement"},
					{Code: "C1", Label: "Awaiting Implementation"},
					{Code: "C2", Label: "Commenced Implementation"},
					{Code: "C3", Label: "Under Construction"},
					{Code: "D1", Label: "Awaiting Commercial Operation"},
					{Code: "D2", Label: "Partially Commenced Commercial Operations"},
					{Code: "E1", Label: "In Commercial Operation"},
					{Code: "A0", Label: "Rejected Applications"},
					{Code: "B0", Label: "Dormant"},
					{Code: "C4", Label: "Implementation Ceased"},
					{Code: "F1", Label: "Operation Suspended"},
					{Code: "G1-G9", Label: "Approval Withdrawn (various reasons)"},
					{Code: "H1-H9", Label: "Agreement Cancelled (various reasons)"},
					{Code: "I1", Label: "Closed"},
				},
				Groups: []CodeGroup{
					{Name: "Active projects", Description: "currently operational or progressing", Codes: activeStatuses},
					{Name: "Pipeline projects", Description: "active but not in commercial operation", Codes: activeStatuses[:7]},
					{Name: "Inactive projects", Description: "closed, cancelled or dormant", Codes: []string{"A0", "B0", "C4", "F1", "G1-G9", "H1-H9", "I1"}},
					{Name: "New projects", Description: "Project_Type_N = 'GENN'", Codes: []string{"GENN"}},
					{Name: "Expansion projects", Description: "Project_Type_N != 'GENN'", Codes: []string{"not GENN"}},
				},
			},
			{
				Name:   "Project Categories",
				Column: "Project_Category",
				Codes: []Code{
					{Code: "21", Label: "Section 17"},
					{Code: "24", Label: "Non BOI Companies"},
					{Code: "61-64", Label: "Section 16"},
					{Code: "71-72, 74", Label: "Section 17"},
				},
			},
			{
				Name:        "Country Codes",
				Column:      "Country_Code1-15",
				Description: "Country codes follow ISO standards but include some custom codes. Substitution point: " + countryPlaceholder,
				Codes:       investmentCountryCodes,
			},
		},
		QueryPatterns: []string{
			"Active Projects: WHERE Project_Status IN ('A1','B1','C1','C2','C3','D1','D2','E1')",
			"Investment Analysis: SUM(FORINVANU), SUM(LOCINVANU)",
			"Employment Analysis: SUM(EMPVLUANU)",
			"Sector Analysis: GROUP BY NewSector",
			"Country Analysis: LEFT OUTER JOIN ShareHolders_Country, match Country_Code1 through Country_Code15",
			"Time Series: LEFT OUTER JOIN ANNUAT2024, GROUP BY YEAR",
			"Export Performance: SUM(EXPVLUANU) from ANNUAT2024",
		},
		Notes: []string{
			"ALWAYS USE LEFT OUTER JOIN. This is mandatory for all queries.",
			"Relationships use the composite key (Reference_Number, Project_Type, Project_Category).",
			"Investment amounts are in local currency (LKR) or foreign currency (USD).",
			"ANNUAT2024 contains actual annual performance figures; General_Project_Detail contains estimated figures.",
			"Use ANNUAT2024 for historical analysis, General_Project_Detail for current status.",
			"Date fields may contain NULL values for future milestones.",
			"Project categories determine regulatory framework and incentives.",
		},
		Templates: []ReportTemplate{
			{
				Name:        "Country Report",
				Triggers:    []string{"Country Report for [Country_Name]", "Project list for [Country_Name]"},
				Placeholder: countryPlaceholder,
				Description: "Project-level list of new active projects with an investor from the given country, sorted by status then name. Decode Project_Category into Section and Project_Status into its label.",
				SQL:         countryReportSQL,
			},
			{
				Name:        "Summary Report",
				Triggers:    []string{"Summary Report for [Country_Name]"},
				Placeholder: countryPlaceholder,
				Description: "Per-section project counts, sector breakdown, exports and employment for projects with an investor from the given country.",
				SQL:         summaryReportSQL,
			},
		},
		Rules: []string{
			"Consider BOI business context (investments, exports, employment, project approvals)",
			"Main table is General_Project_Detail with composite key (Reference_Number, Project_Type, Project_Category)",
			"For performance data, JOIN with ANNUAT2024 table",
			"For investor information, JOIN with ShareHolders_Country table",
			"Use appropriate WHERE clauses for project status, dates, sectors",
			"When showing financial data, consider both foreign (FORINVANU) and local (LOCINVANU) investments",
			"All the projects called \"New\" are those where Project_Type_N = 'GENN'",
		},
		Examples: []string{
			"Show all investment projects",
			"List approved projects",
			"Projects in IT sector",
			"Export performance for 2023",
			"Foreign investment statistics",
			"Employment data by project",
			"Top 10 projects by investment amount",
			"Projects by investor country",
		},
		QuickStats: []QuickStat{
			{Label: "Total Projects", SQL: "SELECT COUNT(*) AS Total_Projects FROM General_Project_Detail"},
			{Label: "Active Sectors", SQL: "SELECT COUNT(DISTINCT NewSector) AS Active_Sectors FROM General_Project_Detail WHERE NewSector IS NOT NULL"},
		},
	}
}

const countryReportSQL = `
SELECT
    CASE
        WHEN g.Project_Category_N IN (61,62,63,64) THEN 'Section 16'
        WHEN g.Project_Category_N IN (21,71,72,74) THEN 'Section 17'
        ELSE 'Other'
    END AS Section,
    g.Project_Name,
    g.Product_Description,
    g.NewSector,
    CASE g.Project_Status
        WHEN 'A1' THEN 'Awaiting Approval'
        WHEN 'B1' THEN 'Approved/Awaiting Agreement'
        WHEN 'C1' THEN 'Awaiting Implementation'
        WHEN 'C2' THEN 'Commenced Implementation'
        WHEN 'C3' THEN 'Under Construction'
        WHEN 'D1' THEN 'Awaiting Commercial Operation'
        WHEN 'D2' THEN 'Partially Commenced Commercial Operations'
        WHEN 'E1' THEN 'In Commercial Operation'
    END AS Current_Status
FROM General_Project_Detail g
LEFT OUTER JOIN ShareHolders_Country s ON
    g.Reference_Number = s.Reference_Number AND
    g.Project_Type = s.Project_Type AND
    g.Project_Category = s.Project_Category
WHERE
    '@country_code' IN (
        s.Country_Code1, s.Country_Code2, s.Country_Code3, s.Country_Code4, s.Country_Code5,
        s.Country_Code6, s.Country_Code7, s.Country_Code8, s.Country_Code9, s.Country_Code10,
        s.Country_Code11, s.Country_Code12, s.Country_Code13, s.Country_Code14, s.Country_Code15
    )
    AND g.Project_Status IN ('A1','B1','C1','C2','C3','D1','D2','E1')
    AND g.Project_Category_N != 24
    AND g.Project_Type_N = 'GENN'
ORDER BY g.Project_Status, g.Project_Name`

const summaryReportSQL = `
WITH BaseData AS (
    SELECT DISTINCT
        G.Reference_Number_N,
        G.Project_Type_N,
        G.Project_Category_N,
        G.NewSector,
        G.Project_Status,
        S.ShareHolder_Type,
        CASE
            WHEN G.Project_Category_N IN (61,62,63,64) THEN 'Section 16'
            WHEN G.Project_Category_N IN (21,71,72,74) THEN 'Section 17'
            ELSE 'Other'
        END AS Section
    FROM General_Project_Detail G
    LEFT OUTER JOIN ShareHolders_Country S ON
        G.Reference_Number = S.Reference_Number AND
        G.Project_Type = S.Project_Type AND
        G.Project_Category = S.Project_Category
    WHERE
        G.Project_Category_N != 24
        AND G.Project_Status IN ('A1','B1','C1','C2','C3','D1','D2','E1')
        AND G.Project_Type_N = 'GENN'
        AND '@country_code' IN (
            S.Country_Code1, S.Country_Code2, S.Country_Code3, S.Country_Code4,
            S.Country_Code5, S.Country_Code6, S.Country_Code7, S.Country_Code8,
            S.Country_Code9, S.Country_Code10, S.Country_Code11, S.Country_Code12,
            S.Country_Code13, S.Country_Code14, S.Country_Code15
        )
),
ExportsEmployment AS (
    SELECT
        CASE
            WHEN G.Project_Category_N IN (61,62,63,64) THEN 'Section 16'
            WHEN G.Project_Category_N IN (21,71,72,74) THEN 'Section 17'
            ELSE 'Other'
        END AS Section,
        SUM(A.EXPVLUANU) AS Exports_2024,
        SUM(A.EMPVLUANU) AS Employment_2024
    FROM ANNUAT2024 A
    LEFT OUTER JOIN General_Project_Detail G ON
        A.REFNO = G.Reference_Number AND
        A.PRJTYPE = G.Project_Type AND
        A.PRJCAT = G.Project_Category
    LEFT OUTER JOIN ShareHolders_Country S ON
        G.Reference_Number = S.Reference_Number AND
        G.Project_Type = S.Project_Type AND
        G.Project_Category = S.Project_Category
    WHERE
        G.Project_Category_N != 24
        AND '@country_code' IN (
            S.Country_Code1, S.Country_Code2, S.Country_Code3, S.Country_Code4,
            S.Country_Code5, S.Country_Code6, S.Country_Code7, S.Country_Code8,
            S.Country_Code9, S.Country_Code10, S.Country_Code11, S.Country_Code12,
            S.Country_Code13, S.Country_Code14, S.Country_Code15
        )
    GROUP BY
        CASE
            WHEN G.Project_Category_N IN (61,62,63,64) THEN 'Section 16'
            WHEN G.Project_Category_N IN (21,71,72,74) THEN 'Section 17'
            ELSE 'Other'
        END
),
CombinedMetrics AS (
    SELECT
        Section,
        COUNT(DISTINCT Reference_Number_N) AS Total_Projects,
        COUNT(DISTINCT CASE WHEN Project_Status = 'E1' THEN Reference_Number_N END) AS Commercial_Projects,
        COUNT(DISTINCT CASE WHEN Project_Status IN ('A1','B1','C1','C2','C3','D1','D2') THEN Reference_Number_N END) AS Pipeline_Projects,
        COUNT(DISTINCT CASE WHEN Project_Status = 'E1' AND NewSector = 'Manufacturing' THEN Reference_Number_N END) AS Manufacturing,
        COUNT(DISTINCT CASE WHEN Project_Status = 'E1' AND NewSector = 'Apparel' THEN Reference_Number_N END) AS Apparel,
        COUNT(DISTINCT CASE WHEN Project_Status = 'E1' AND NewSector = 'Infrastructure' THEN Reference_Number_N END) AS Infrastructure,
        COUNT(DISTINCT CASE WHEN Project_Status = 'E1' AND NewSector = 'Knowledge Services' THEN Reference_Number_N END) AS Knowledge_Services,
        COUNT(DISTINCT CASE WHEN Project_Status = 'E1' AND NewSector = 'Tourism & Leisure' THEN Reference_Number_N END) AS Tourism_Leisure,
        COUNT(DISTINCT CASE WHEN Project_Status = 'E1' AND NewSector = 'Utilities' THEN Reference_Number_N END) AS Utilities,
        COUNT(DISTINCT CASE WHEN Project_Status = 'E1' AND NewSector = 'Services' THEN Reference_Number_N END) AS Services,
        COUNT(DISTINCT CASE WHEN Project_Status = 'E1' AND NewSector = 'Agriculture' THEN Reference_Number_N END) AS Agriculture,
        COUNT(DISTINCT CASE WHEN Project_Status = 'E1' AND ShareHolder_Type = 'Foreign' THEN Reference_Number_N END) AS Foreign_Only,
        COUNT(DISTINCT CASE WHEN Project_Status = 'E1' AND ShareHolder_Type = 'Joint Venture' THEN Reference_Number_N END) AS Joint_Venture
    FROM BaseData
    GROUP BY Section
)
SELECT
    COALESCE(cm.Section, EM.Section) AS Section,
    COALESCE(cm.Total_Projects, 0) AS Total_Projects,
    COALESCE(cm.Commercial_Projects, 0) AS Commercial_Projects,
    COALESCE(cm.Pipeline_Projects, 0) AS Pipeline_Projects,
    COALESCE(cm.Foreign_Only, 0) AS Foreign_Only,
    COALESCE(cm.Joint_Venture, 0) AS Joint_Venture,
    COALESCE(cm.Manufacturing, 0) AS Manufacturing,
    COALESCE(cm.Apparel, 0) AS Apparel,
    COALESCE(cm.Infrastructure, 0) AS Infrastructure,
    COALESCE(cm.Knowledge_Services, 0) AS Knowledge_Services,
    COALESCE(cm.Tourism_Leisure, 0) AS Tourism_Leisure,
    COALESCE(cm.Utilities, 0) AS Utilities,
    COALESCE(cm.Services, 0) AS Services,
    COALESCE(cm.Agriculture, 0) AS Agriculture,
    COALESCE(EM.Exports_2024, 0) AS Exports_2024,
    COALESCE(EM.Employment_2024, 0) AS Employment_2024
FROM CombinedMetrics cm
FULL OUTER JOIN ExportsEmployment EM ON cm.Section = EM.Section
ORDER BY Section`
