package demo

import "time"

// ProjectRow is one General_Project_Detail record. Field names are the column names.
type ProjectRow struct {
	Reference_Number           string     `parquet:"Reference_Number"`
	Reference_Number_N         int64      `parquet:"Reference_Number_N"`
	Project_Type               string     `parquet:"Project_Type"`
	Project_Type_N             string     `parquet:"Project_Type_N"`
	Project_Category           string     `parquet:"Project_Category"`
	Project_Category_N         int64      `parquet:"Project_Category_N"`
	Project_Name               string     `parquet:"Project_Name"`
	Enterprise_Code            string     `parquet:"Enterprise_Code"`
	Project_Status             string     `parquet:"Project_Status"`
	Project_Officer_Code       string     `parquet:"Project_Officer_Code"`
	Product_Description        string     `parquet:"Product_Description"`
	Contact_Person             string     `parquet:"Contact_Person"`
	Registration_Number        string     `parquet:"Registration_Number"`
	Application_Submitted_Date time.Time  `parquet:"Application_Submitted_Date"`
	Board_Approval_Date        *time.Time `parquet:"Board_Approval_Date,optional"`
	Approval_Date              *time.Time `parquet:"Approval_Date,optional"`
	Agreement_Date             *time.Time `parquet:"Agreement_Date,optional"`
	Implementation_Date        *time.Time `parquet:"Implementation_Date,optional"`
	Commercial_Operation_Date  *time.Time `parquet:"Commercial_Operation_Date,optional"`
	Est_Total_Investment_For   float64    `parquet:"Est_Total_Investment_For"`
	Est_Total_Investment_Loc   float64    `parquet:"Est_Total_Investment_Loc"`
	Est_Total_Manpower_For     int64      `parquet:"Est_Total_Manpower_For"`
	Est_Total_Manpower_Loc     int64      `parquet:"Est_Total_Manpower_Loc"`
	ISIC_Code                  string     `parquet:"ISIC_Code"`
	NewSector                  string     `parquet:"NewSector"`
	GICS                       string     `parquet:"GICS"`
	ExpPct                     float64    `parquet:"ExpPct"`
	LocPct                     float64    `parquet:"LocPct"`
}

// ShareholderSlots is how many shareholder/country/investor column triples a project carries.
const ShareholderSlots = 15

// ShareholderRow is one ShareHolders_Country record with its fifteen numbered slots.
type ShareholderRow struct {
	Reference_Number    string  `parquet:"Reference_Number"`
	Project_Type        string  `parquet:"Project_Type"`
	Project_Category    string  `parquet:"Project_Category"`
	ShareHolder_Type    string  `parquet:"ShareHolder_Type"`
	Share_Holder_Name1  *string `parquet:"Share_Holder_Name1,optional"`
	Share_Holder_Name2  *string `parquet:"Share_Holder_Name2,optional"`
	Share_Holder_Name3  *string `parquet:"Share_Holder_Name3,optional"`
	Share_Holder_Name4  *string `parquet:"Share_Holder_Name4,optional"`
	Share_Holder_Name5  *string `parquet:"Share_Holder_Name5,optional"`
	Share_Holder_Name6  *string `parquet:"Share_Holder_Name6,optional"`
	Share_Holder_Name7  *string `parquet:"Share_Holder_Name7,optional"`
	Share_Holder_Name8  *string `parquet:"Share_Holder_Name8,optional"`
	Share_Holder_Name9  *string `parquet:"Share_Holder_Name9,optional"`
	Share_Holder_Name10 *string `parquet:"Share_Holder_Name10,optional"`
	Share_Holder_Name11 *string `parquet:"Share_Holder_Name11,optional"`
	Share_Holder_Name12 *string `parquet:"Share_Holder_Name12,optional"`
	Share_Holder_Name13 *string `parquet:"Share_Holder_Name13,optional"`
	Share_Holder_Name14 *string `parquet:"Share_Holder_Name14,optional"`
	Share_Holder_Name15 *string `parquet:"Share_Holder_Name15,optional"`
	Country_Code1       *string `parquet:"Country_Code1,optional"`
	Country_Code2       *string `parquet:"Country_Code2,optional"`
	Country_Code3       *string `parquet:"Country_Code3,optional"`
	Country_Code4       *string `parquet:"Country_Code4,optional"`
	Country_Code5       *string `parquet:"Country_Code5,optional"`
	Country_Code6       *string `parquet:"Country_Code6,optional"`
	Country_Code7       *string `parquet:"Country_Code7,optional"`
	Country_Code8       *string `parquet:"Country_Code8,optional"`
	Country_Code9       *string `parquet:"Country_Code9,optional"`
	Country_Code10      *string `parquet:"Country_Code10,optional"`
	Country_Code11      *string `parquet:"Country_Code11,optional"`
	Country_Code12      *string `parquet:"Country_Code12,optional"`
	Country_Code13      *string `parquet:"Country_Code13,optional"`
	Country_Code14      *string `parquet:"Country_Code14,optional"`
	Country_Code15      *string `parquet:"Country_Code15,optional"`
	Investor_Number1    *string `parquet:"Investor_Number1,optional"`
	Investor_Number2    *string `parquet:"Investor_Number2,optional"`
	Investor_Number3    *string `parquet:"Investor_Number3,optional"`
	Investor_Number4    *string `parquet:"Investor_Number4,optional"`
	Investor_Number5    *string `parquet:"Investor_Number5,optional"`
	Investor_Number6    *string `parquet:"Investor_Number6,optional"`
	Investor_Number7    *string `parquet:"Investor_Number7,optional"`
	Investor_Number8    *string `parquet:"Investor_Number8,optional"`
	Investor_Number9    *string `parquet:"Investor_Number9,optional"`
	Investor_Number10   *string `parquet:"Investor_Number10,optional"`
	Investor_Number11   *string `parquet:"Investor_Number11,optional"`
	Investor_Number12   *string `parquet:"Investor_Number12,optional"`
	Investor_Number13   *string `parquet:"Investor_Number13,optional"`
	Investor_Number14   *string `parquet:"Investor_Number14,optional"`
	Investor_Number15   *string `parquet:"Investor_Number15,optional"`
}

func (r *ShareholderRow) setSlot(slot int, name, country, investor string) {
	if slot < 0 || slot >= ShareholderSlots {
		return
	}
	*r.names()[slot] = &name
	*r.countries()[slot] = &country
	*r.investors()[slot] = &investor
}

// Countries returns the filled country codes in slot order.
func (r *ShareholderRow) Countries() []string {
	out := make([]string, 0, 4)
	for _, code := range r.countries() {
		if *code != nil {
			out = append(out, **code)
		}
	}
	return out
}

func (r *ShareholderRow) names() [ShareholderSlots]**string {
	return [ShareholderSlots]**string{
		&r.Share_Holder_Name1, &r.Share_Holder_Name2, &r.Share_Holder_Name3, &r.Share_Holder_Name4, &r.Share_Holder_Name5,
		&r.Share_Holder_Name6, &r.Share_Holder_Name7, &r.Share_Holder_Name8, &r.Share_Holder_Name9, &r.Share_Holder_Name10,
		&r.Share_Holder_Name11, &r.Share_Holder_Name12, &r.Share_Holder_Name13, &r.Share_Holder_Name14, &r.Share_Holder_Name15,
	}
}

func (r *ShareholderRow) countries() [ShareholderSlots]**string {
	return [ShareholderSlots]**string{
		&r.Country_Code1, &r.Country_Code2, &r.Country_Code3, &r.Country_Code4, &r.Country_Code5,
		&r.Country_Code6, &r.Country_Code7, &r.Country_Code8, &r.Country_Code9, &r.Country_Code10,
		&r.Country_Code11, &r.Country_Code12, &r.Country_Code13, &r.Country_Code14, &r.Country_Code15,
	}
}

func (r *ShareholderRow) investors() [ShareholderSlots]**string {
	return [ShareholderSlots]**string{
		&r.Investor_Number1, &r.Investor_Number2, &r.Investor_Number3, &r.Investor_Number4, &r.Investor_Number5,
		&r.Investor_Number6, &r.Investor_Number7, &r.Investor_Number8, &r.Investor_Number9, &r.Investor_Number10,
		&r.Investor_Number11, &r.Investor_Number12, &r.Investor_Number13, &r.Investor_Number14, &r.Investor_Number15,
	}
}

// AnnualRow is one ANNUAT2024 record: a project's actual figures for one year.
type AnnualRow struct {
	REFNO      string  `parquet:"REFNO"`
	PRJTYPE    string  `parquet:"PRJTYPE"`
	PRJCAT     string  `parquet:"PRJCAT"`
	YEAR       int64   `parquet:"YEAR"`
	EXPVLUANU  float64 `parquet:"EXPVLUANU"`
	EMPVLUANU  int64   `parquet:"EMPVLUANU"`
	RMIMPANU   float64 `parquet:"RMIMPANU"`
	LOCINVANU  float64 `parquet:"LOCINVANU"`
	FORINVANU  float64 `parquet:"FORINVANU"`
	FOREQTYANU float64 `parquet:"FOREQTYANU"`
	LOCEQTYANU float64 `parquet:"LOCEQTYANU"`
}
