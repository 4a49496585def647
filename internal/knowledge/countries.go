package knowledge

var investmentCountryCodes = []Code{
	{Code: "AF", Label: "Afghanistan"},
	{Code: "AL", Label: "Albania"},
	{Code: "DZ", Label: "Algeria"},
	{Code: "AS", Label: "American Samoa"},
	{Code: "AD", Label: "Andorra"},
	{Code: "AO", Label: "Angola"},
	{Code: "AI", Label: "Anguilla"},
	{Code: "AQ", Label: "Antarctica"},
	{Code: "AG", Label: "Antigua & Barbuda"},
	{Code: "AR", Label: "Argentina"},
	{Code: "AM", Label: "Armenia"},
	{Code: "AW", Label: "Aruba"},
	{Code: "AU", Label: "Australia"},
	{Code: "AT", Label: "Austria"},
	{Code: "AZ", Label: "Azerbaijan"},
	{Code: "BS", Label: "Bahamas"},
	{Code: "BH", Label: "Bahrain"},
	{Code: "BD", Label: "Bangladesh"},
	{Code: "BB", Label: "Barbados"},
	{Code: "BY", Label: "Belarus"},
	{Code: "BE", Label: "Belgium"},
	{Code: "BZ", Label: "Belize"},
	{Code: "BJ", Label: "Benin"},
	{Code: "BM", Label: "Bermuda"},
	{Code: "BT", Label: "Bhutan"},
	{Code: "BO", Label: "Bolivia"},
	{Code: "BA", Label: "Bosnia & Herzegovina"},
	{Code: "BW", Label: "Botswana"},
	{Code: "BV", Label: "Bouvet Island"},
	{Code: "BR", Label: "Brazil"},
	{Code: "IO", Label: "British Indian Ocean"},
	{Code: "BN", Label: "Brunei Darussalam"},
	{Code: "BG", Label: "Bulgaria"},
	{Code: "BF", Label: "Burkina Faso"},
	{Code: "BI", Label: "Burundi"},
	{Code: "KH", Label: "Cambodia"},
	{Code: "CM", Label: "Cameroon"},
	{Code: "CA", Label: "Canada"},
	{Code: "CV", Label: "Cape Verde"},
	{Code: "KY", Label: "Cayman Islands"},
	{Code: "CF", Label: "Central African Republic"},
	{Code: "TD", Label: "Chad"},
	{Code: "CD", Label: "Channel Islands"},
	{Code: "CL", Label: "Chile"},
	{Code: "CN", Label: "China"},
	{Code: "CX", Label: "Christmas Island"},
	{Code: "CC", Label: "Cocos (Keeling) Islands"},
	{Code: "CO", Label: "Colombia"},
	{Code: "KM", Label: "Comoros"},
	{Code: "CG", Label: "Congo"},
	{Code: "CK", Label: "Cook Islands"},
	{Code: "CR", Label: "Costa Rica"},
	{Code: "CI", Label: "Cote D'ivoire"},
	{Code: "CY", Label: "Cyprus"},
	{Code: "CU", Label: "Cuba"},
	{Code: "CZ", Label: "Czech Republic"},
	{Code: "DE", Label: "Germany, Federal Republic of"},
	{Code: "CS", Label: "Czechoslovakia"},
	{Code: "YD", Label: "Democratic Yemen"},
	{Code: "DK", Label: "Denmark"},
	{Code: "DJ", Label: "Djibouti"},
	{Code: "DM", Label: "Dominica"},
	{Code: "DO", Label: "Dominican Republic"},
	{Code: "DB", Label: "Dubai"},
	{Code: "TP", Label: "East Timor"},
	{Code: "EC", Label: "Ecuador"},
	{Code: "EG", Label: "Egypt"},
	{Code: "EI", Label: "Eire"},
	{Code: "SV", Label: "El Salvador"},
	{Code: "GO", Label: "Equatorial Guinea"},
	{Code: "EA", Label: "Eritrea"},
	{Code: "EE", Label: "Estonia"},
	{Code: "ET", Label: "Ethiopia"},
	{Code: "EU", Label: "European Union"},
	{Code: "FK", Label: "Falkland Islands (Malvinas)"},
	{Code: "FO", Label: "Faroe Islands"},
	{Code: "FJ", Label: "Fiji"},
	{Code: "ES", Label: "Spain"},
	{Code: "FI", Label: "Finland"},
	{Code: "GF", Label: "French Guiana"},
	{Code: "PF", Label: "French Polynesia"},
	{Code: "GA", Label: "Gabon"},
	{Code: "GM", Label: "Gambia"},
	{Code: "GG", Label: "Georgia"},
	{Code: "FR", Label: "France"},
	{Code: "GH", Label: "Ghana"},
	{Code: "GI", Label: "Gibraltar"},
	{Code: "GR", Label: "Greece"},
	{Code: "GL", Label: "Greenland"},
	{Code: "GD", Label: "Grenada"},
	{Code: "GP", Label: "Guadeloupe"},
	{Code: "GU", Label: "Guam"},
	{Code: "GT", Label: "Guatemala"},
	{Code: "GN", Label: "Guinea"},
	{Code: "GW", Label: "Guinea-Bussau"},
	{Code: "GY", Label: "Guyana"},
	{Code: "HT", Label: "Haiti"},
	{Code: "HM", Label: "Heard And Mc Donald"},
	{Code: "HN", Label: "Honduras"},
	{Code: "HK", Label: "Hong Kong"},
	{Code: "HR", Label: "Croatia"},
	{Code: "IS", Label: "Iceland"},
	{Code: "IN", Label: "India"},
	{Code: "ID", Label: "Indonesia"},
	{Code: "IR", Label: "Iran (Islamic Republic)"},
	{Code: "IQ", Label: "Iraq"},
	{Code: "HU", Label: "Hungary"},
	{Code: "IM", Label: "Isle Of Man"},
	{Code: "IL", Label: "Israel"},
	{Code: "IE", Label: "Ireland"},
	{Code: "IC", Label: "Ivory Coast"},
	{Code: "JM", Label: "Jamaica"},
	{Code: "JP", Label: "Japan"},
	{Code: "JT", Label: "Johnston Island"},
	{Code: "JO", Label: "Jordan"},
	{Code: "KZ", Label: "Kazakstan"},
	{Code: "KE", Label: "Kenya"},
	{Code: "KI", Label: "Kiribati"},
	{Code: "KP", Label: "Korea, Democratic Peoples Rep."},
	{Code: "KR", Label: "Korea, Republic Of (South Korea)"},
	{Code: "KW", Label: "Kuwait"},
	{Code: "KG", Label: "Kyrgyzatan"},
	{Code: "LA", Label: "Lao People's Democratic Republic"},
	{Code: "IT", Label: "Italy"},
	{Code: "LB", Label: "Lebanon"},
	{Code: "LS", Label: "Lesotho"},
	{Code: "LR", Label: "Liberia"},
	{Code: "LI", Label: "Lichtenstein"},
	{Code: "LT", Label: "Lithuania"},
	{Code: "LU", Label: "Luxembourg"},
	{Code: "LY", Label: "Lybian Arab Jamahiri"},
	{Code: "MO", Label: "Macau"},
	{Code: "MK", Label: "Macedonia"},
	{Code: "MG", Label: "Madagascar"},
	{Code: "MW", Label: "Malawi"},
	{Code: "MY", Label: "Malaysia"},
	{Code: "MV", Label: "Maldives"},
	{Code: "ML", Label: "Mali"},
	{Code: "LV", Label: "Latvia"},
	{Code: "MH", Label: "Marshall Islands"},
	{Code: "MQ", Label: "Martinique"},
	{Code: "MR", Label: "Mauritania"},
	{Code: "MU", Label: "Mauritius"},
	{Code: "MX", Label: "Mexico"},
	{Code: "FM", Label: "Micronesia, Federated States Of"},
	{Code: "MI", Label: "Midway Islands"},
	{Code: "MC", Label: "Monaco"},
	{Code: "MN", Label: "Mongolia"},
	{Code: "MS", Label: "Montserrat"},
	{Code: "MA", Label: "Morocco"},
	{Code: "MZ", Label: "Mozambique"},
	{Code: "MM", Label: "Myanmar"},
	{Code: "NA", Label: "Namibia"},
	{Code: "NR", Label: "Nauru"},
	{Code: "NP", Label: "Nepal"},
	{Code: "MT", Label: "Malta"},
	{Code: "AN", Label: "Netherlands Antilles"},
	{Code: "NT", Label: "Neutral Zone"},
	{Code: "NC", Label: "New Caledonia"},
	{Code: "NZ", Label: "New Zealand"},
	{Code: "NI", Label: "Nicaragua"},
	{Code: "NE", Label: "Niger"},
	{Code: "NG", Label: "Nigeria"},
	{Code: "NU", Label: "Niue"},
	{Code: "NF", Label: "Norfolk Island"},
	{Code: "MP", Label: "Northern Mariana Island"},
	{Code: "NO", Label: "Norway"},
	{Code: "0", Label: "Not defined"},
	{Code: "OM", Label: "Oman"},
	{Code: "OF", Label: "Other Foreign"},
	{Code: "PK", Label: "Pakistan"},
	{Code: "PW", Label: "Palau"},
	{Code: "PA", Label: "Panama"},
	{Code: "PG", Label: "Papua New Guinea"},
	{Code: "PY", Label: "Paraguay"},
	{Code: "PE", Label: "Peru"},
	{Code: "PR", Label: "Peurto Rico"},
	{Code: "PH", Label: "Philippines"},
	{Code: "PN", Label: "Pitcairn"},
	{Code: "NL", Label: "Netherlands"},
	{Code: "PL", Label: "Poland"},
	{Code: "TF", Label: "Prench Southern Terr"},
	{Code: "QA", Label: "Qatar"},
	{Code: "MD", Label: "Republic of Moldova"},
	{Code: "RE", Label: "Reunion"},
	{Code: "PT", Label: "Portugal"},
	{Code: "RS", Label: "Russia"},
	{Code: "RW", Label: "Rwanda"},
	{Code: "WS", Label: "Samoa"},
	{Code: "SM", Label: "San Marino"},
	{Code: "ST", Label: "Sao Tome And Principe"},
	{Code: "SA", Label: "Saudi Arabia"},
	{Code: "SN", Label: "Senegal"},
	{Code: "RU", Label: "Serbia"},
	{Code: "SC", Label: "Seychelles"},
	{Code: "SL", Label: "Sierra Leone"},
	{Code: "SG", Label: "Singapore"},
	{Code: "RO", Label: "Romania"},
	{Code: "SE", Label: "Sweden"},
	{Code: "SB", Label: "Solomon Islands"},
	{Code: "SO", Label: "Somalia"},
	{Code: "ZA", Label: "South Africa"},
	{Code: "SI", Label: "Slovenia"},
	{Code: "LK", Label: "Sri Lanka (domestic investors)"},
	{Code: "LC", Label: "St Lucia"},
	{Code: "SH", Label: "St. Helena"},
	{Code: "KN", Label: "St. Kitts And Nevis"},
	{Code: "PM", Label: "St. Pierre Et Miquel"},
	{Code: "VC", Label: "St. Vincent And The Grenadines"},
	{Code: "PS", Label: "State of Palestine"},
	{Code: "SD", Label: "Sudan"},
	{Code: "SR", Label: "Surinam"},
	{Code: "SJ", Label: "Svalbard And Jan Mayen Islands"},
	{Code: "SZ", Label: "Swaziland"},
	{Code: "SK", Label: "Slovakia"},
	{Code: "CH", Label: "Switzerland"},
	{Code: "SY", Label: "Syrian Arab Republic"},
	{Code: "TW", Label: "Taiwan, Province Of China"},
	{Code: "TJ", Label: "Tajikistan"},
	{Code: "TZ", Label: "Tanzania"},
	{Code: "TH", Label: "Thailand"},
	{Code: "TG", Label: "Togo"},
	{Code: "TK", Label: "Tokelau"},
	{Code: "TO", Label: "Tonga"},
	{Code: "TT", Label: "Trinidad And Tobago"},
	{Code: "TN", Label: "Tunisia"},
	{Code: "TR", Label: "Turkey"},
	{Code: "TM", Label: "Turkmenistan"},
	{Code: "TC", Label: "Turks And Caicos Islands"},
	{Code: "TV", Label: "Tuvalu"},
	{Code: "UM", Label: "U.S. Minor Outlying"},
	{Code: "UG", Label: "Uganda"},
	{Code: "UA", Label: "Ukrainian Ssr"},
	{Code: "AE", Label: "United Arab Emirates"},
	{Code: "GB", Label: "United Kingdom"},
	{Code: "US", Label: "United States"},
	{Code: "UY", Label: "Uruguay"},
	{Code: "SU", Label: "USSR"},
	{Code: "UZ", Label: "Uzbekistan"},
	{Code: "VU", Label: "Vanuatu"},
	{Code: "VA", Label: "Vatican City State"},
	{Code: "VE", Label: "Venezuela"},
	{Code: "VN", Label: "Vietnam"},
	{Code: "VG", Label: "Virgin Islands (British)"},
	{Code: "VI", Label: "Virgin Islands (Us)"},
	{Code: "X1", Label: "W.Africa"},
	{Code: "WF", Label: "Wallis & Futuna Isla"},
	{Code: "WI", Label: "West Indies"},
	{Code: "WB", Label: "West Indies (British)"},
	{Code: "EH", Label: "Western Sahara"},
	{Code: "YE", Label: "Yemen"},
	{Code: "YU", Label: "Yugoslavia"},
	{Code: "ZR", Label: "Zaire"},
	{Code: "ZM", Label: "Zambia"},
	{Code: "ZW", Label: "Zimbabwe"},
}
