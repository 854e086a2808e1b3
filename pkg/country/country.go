// Package country validates and normalizes ISO-3166-1 alpha-2 country
// codes, and resolves the common English names and abbreviations that
// show up on trading-participant forms instead of a bare code.
package country

import "strings"

// isoCountryCodes is the full ISO-3166-1 alpha-2 set.
var isoCountryCodes = map[string]struct{}{
	"AD": {}, "AE": {}, "AF": {}, "AG": {}, "AI": {}, "AL": {}, "AM": {}, "AO": {}, "AQ": {}, "AR": {},
	"AS": {}, "AT": {}, "AU": {}, "AW": {}, "AX": {}, "AZ": {}, "BA": {}, "BB": {}, "BD": {}, "BE": {},
	"BF": {}, "BG": {}, "BH": {}, "BI": {}, "BJ": {}, "BL": {}, "BM": {}, "BN": {}, "BO": {}, "BQ": {},
	"BR": {}, "BS": {}, "BT": {}, "BV": {}, "BW": {}, "BY": {}, "BZ": {}, "CA": {}, "CC": {}, "CD": {},
	"CF": {}, "CG": {}, "CH": {}, "CI": {}, "CK": {}, "CL": {}, "CM": {}, "CN": {}, "CO": {}, "CR": {},
	"CU": {}, "CV": {}, "CW": {}, "CX": {}, "CY": {}, "CZ": {}, "DE": {}, "DJ": {}, "DK": {}, "DM": {},
	"DO": {}, "DZ": {}, "EC": {}, "EE": {}, "EG": {}, "EH": {}, "ER": {}, "ES": {}, "ET": {}, "FI": {},
	"FJ": {}, "FK": {}, "FM": {}, "FO": {}, "FR": {}, "GA": {}, "GB": {}, "GD": {}, "GE": {}, "GF": {},
	"GG": {}, "GH": {}, "GI": {}, "GL": {}, "GM": {}, "GN": {}, "GP": {}, "GQ": {}, "GR": {}, "GS": {},
	"GT": {}, "GU": {}, "GW": {}, "GY": {}, "HK": {}, "HM": {}, "HN": {}, "HR": {}, "HT": {}, "HU": {},
	"ID": {}, "IE": {}, "IL": {}, "IM": {}, "IN": {}, "IO": {}, "IQ": {}, "IR": {}, "IS": {}, "IT": {},
	"JE": {}, "JM": {}, "JO": {}, "JP": {}, "KE": {}, "KG": {}, "KH": {}, "KI": {}, "KM": {}, "KN": {},
	"KP": {}, "KR": {}, "KW": {}, "KY": {}, "KZ": {}, "LA": {}, "LB": {}, "LC": {}, "LI": {}, "LK": {},
	"LR": {}, "LS": {}, "LT": {}, "LU": {}, "LV": {}, "LY": {}, "MA": {}, "MC": {}, "MD": {}, "ME": {},
	"MF": {}, "MG": {}, "MH": {}, "MK": {}, "ML": {}, "MM": {}, "MN": {}, "MO": {}, "MP": {}, "MQ": {},
	"MR": {}, "MS": {}, "MT": {}, "MU": {}, "MV": {}, "MW": {}, "MX": {}, "MY": {}, "MZ": {}, "NA": {},
	"NC": {}, "NE": {}, "NF": {}, "NG": {}, "NI": {}, "NL": {}, "NO": {}, "NP": {}, "NR": {}, "NU": {},
	"NZ": {}, "OM": {}, "PA": {}, "PE": {}, "PF": {}, "PG": {}, "PH": {}, "PK": {}, "PL": {}, "PM": {},
	"PN": {}, "PR": {}, "PS": {}, "PT": {}, "PW": {}, "PY": {}, "QA": {}, "RE": {}, "RO": {}, "RS": {},
	"RU": {}, "RW": {}, "SA": {}, "SB": {}, "SC": {}, "SD": {}, "SE": {}, "SG": {}, "SH": {}, "SI": {},
	"SJ": {}, "SK": {}, "SL": {}, "SM": {}, "SN": {}, "SO": {}, "SR": {}, "SS": {}, "ST": {}, "SV": {},
	"SX": {}, "SY": {}, "SZ": {}, "TC": {}, "TD": {}, "TF": {}, "TG": {}, "TH": {}, "TJ": {}, "TK": {},
	"TL": {}, "TM": {}, "TN": {}, "TO": {}, "TR": {}, "TT": {}, "TV": {}, "TW": {}, "TZ": {}, "UA": {},
	"UG": {}, "UM": {}, "US": {}, "UY": {}, "UZ": {}, "VA": {}, "VC": {}, "VE": {}, "VG": {}, "VI": {},
	"VN": {}, "VU": {}, "WF": {}, "WS": {}, "YE": {}, "YT": {}, "ZA": {}, "ZM": {}, "ZW": {},
}

// countryNameToCode resolves common English names and abbreviations that
// appear on forms to their ISO alpha-2 code.
var countryNameToCode = map[string]string{
	"UNITED STATES":              "US",
	"USA":                        "US",
	"AMERICA":                    "US",
	"UNITED STATES OF AMERICA":   "US",
	"UNITED KINGDOM":             "GB",
	"UK":                         "GB",
	"ENGLAND":                    "GB",
	"GREAT BRITAIN":              "GB",
	"CANADA":                     "CA",
	"GERMANY":                    "DE",
	"FRANCE":                     "FR",
	"JAPAN":                      "JP",
	"CHINA":                      "CN",
	"PEOPLE'S REPUBLIC OF CHINA": "CN",
	"AUSTRALIA":                  "AU",
	"NETHERLANDS":                "NL",
	"HOLLAND":                    "NL",
	"SWITZERLAND":                "CH",
	"SINGAPORE":                  "SG",
	"HONG KONG":                  "HK",
	"IRELAND":                    "IE",
	"LUXEMBOURG":                 "LU",
	"CAYMAN ISLANDS":             "KY",
	"BERMUDA":                    "BM",
	"BRITISH VIRGIN ISLANDS":     "VG",
	"ISLE OF MAN":                "IM",
	"JERSEY":                     "JE",
	"GUERNSEY":                   "GG",
	"SOUTH KOREA":                "KR",
	"KOREA":                      "KR",
	"INDIA":                      "IN",
	"BRAZIL":                     "BR",
	"MEXICO":                     "MX",
	"SPAIN":                      "ES",
	"ITALY":                      "IT",
	"SWEDEN":                     "SE",
	"NORWAY":                     "NO",
	"DENMARK":                    "DK",
	"FINLAND":                    "FI",
	"BELGIUM":                    "BE",
	"AUSTRIA":                    "AT",
	"PORTUGAL":                   "PT",
}

// IsValidCode reports whether code is a recognized ISO-3166-1 alpha-2 code.
func IsValidCode(code string) bool {
	_, ok := isoCountryCodes[strings.ToUpper(strings.TrimSpace(code))]
	return ok
}

// Normalize resolves country (a code, a common name, or an abbreviation)
// to its ISO alpha-2 code. If country is already a valid code it is
// returned uppercased unchanged; if it matches a known alias it is
// resolved; otherwise the uppercased, trimmed input is returned as-is so
// callers can still compare it for equality even when it isn't a
// recognized code.
func Normalize(country string) string {
	trimmed := strings.ToUpper(strings.TrimSpace(country))
	if trimmed == "" {
		return ""
	}
	if len(trimmed) == 2 && IsValidCode(trimmed) {
		return trimmed
	}
	if code, ok := countryNameToCode[trimmed]; ok {
		return code
	}
	return trimmed
}

// IsGeographicMatch compares an MEI-derived country prefix against an
// address country, normalizing the address side first.
func IsGeographicMatch(meiCountryCode, addressCountry string) bool {
	if meiCountryCode == "" || addressCountry == "" {
		return false
	}
	return strings.ToUpper(strings.TrimSpace(meiCountryCode)) == Normalize(addressCountry)
}
