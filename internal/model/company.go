package model

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
)

// CompanyType is the lifecycle classification of a mining company.
type CompanyType string

const (
	TypeExplorer  CompanyType = "explorer"
	TypeDeveloper CompanyType = "developer"
	TypeProducer  CompanyType = "producer"
	TypeRoyalty   CompanyType = "royalty"
	TypeOther     CompanyType = "other"
)

// CompanyTypes lists all classifications in a fixed order.
var CompanyTypes = []CompanyType{TypeExplorer, TypeDeveloper, TypeProducer, TypeRoyalty, TypeOther}

// Valid reports whether ct is one of the five known classifications.
func (ct CompanyType) Valid() bool {
	switch ct {
	case TypeExplorer, TypeDeveloper, TypeProducer, TypeRoyalty, TypeOther:
		return true
	}
	return false
}

// Company is one row of the input dataset. The engine treats it as
// read-only; all numeric fields are nullable Numerics since upstream
// datasets are sparse.
type Company struct {
	ID     string      `json:"id"`
	Name   string      `json:"name"`
	Ticker string      `json:"ticker,omitempty"`
	Type   CompanyType `json:"type"`

	Financials       Financials       `json:"financials"`
	CapitalStructure CapitalStructure `json:"capital_structure"`
	MineralEstimates MineralEstimates `json:"mineral_estimates"`
	Production       Production       `json:"production"`
	Costs            Costs            `json:"costs"`
	Valuation        Valuation        `json:"valuation"`
}

// Financials holds balance-sheet and cash-flow figures in absolute
// currency units.
type Financials struct {
	Cash               Numeric `json:"cash"`
	Debt               Numeric `json:"debt"`
	FreeCashFlow       Numeric `json:"free_cash_flow"`
	NetFinancialAssets Numeric `json:"net_financial_assets"`
	EnterpriseValue    Numeric `json:"enterprise_value"`
	MarketCap          Numeric `json:"market_cap"`
	Revenue            Numeric `json:"revenue"`
}

// CapitalStructure holds share-count figures.
type CapitalStructure struct {
	ExistingShares     Numeric `json:"existing_shares"`
	FullyDilutedShares Numeric `json:"fully_diluted_shares"`
}

// MineralEstimates holds reserve and resource figures in million gold
// equivalent ounces.
type MineralEstimates struct {
	ReservesTotalAuEqMoz     Numeric `json:"reserves_total_aueq_moz"`
	ReservesPreciousAuEqMoz  Numeric `json:"reserves_precious_aueq_moz"`
	ResourcesTotalAuEqMoz    Numeric `json:"resources_total_aueq_moz"`
	ResourcesPreciousAuEqMoz Numeric `json:"resources_precious_aueq_moz"`
	MineableTotalAuEqMoz     Numeric `json:"mineable_total_aueq_moz"`
}

// Production holds output figures in thousand gold equivalent ounces.
type Production struct {
	CurrentTotalAuEqKoz Numeric `json:"current_production_total_aueq_koz"`
	FutureTotalAuEqKoz  Numeric `json:"future_production_total_aueq_koz"`
	ReserveLifeYears    Numeric `json:"reserve_life_years"`
}

// Costs holds per-ounce and capital cost figures.
type Costs struct {
	AISCLastYear      Numeric `json:"aisc_last_year"`
	AISCFuture        Numeric `json:"aisc_future"`
	ConstructionCosts Numeric `json:"construction_costs"`
}

// Valuation holds pre-computed relative valuation ratios.
type Valuation struct {
	EVPerResourceOzAll    Numeric `json:"ev_per_resource_oz_all"`
	EVPerReserveOzAll     Numeric `json:"ev_per_reserve_oz_all"`
	MktCapPerProductionOz Numeric `json:"mkt_cap_per_production_oz"`
}

// Numeric is a nullable float64 tolerant of the loose typing found in
// upstream datasets: plain numbers, formatted strings ("$1,234.50",
// "3.2%"), booleans, and null all unmarshal without error. Anything
// unparsable is recorded as absent rather than failing the load.
type Numeric struct {
	Value float64
	Valid bool
}

// Num returns a valid Numeric holding v.
func Num(v float64) Numeric { return Numeric{Value: v, Valid: true} }

// Float returns the value and true when it is present and finite.
func (n Numeric) Float() (float64, bool) {
	if !n.Valid || math.IsNaN(n.Value) || math.IsInf(n.Value, 0) {
		return 0, false
	}
	return n.Value, true
}

// UnmarshalJSON accepts numbers, punctuation-laden numeric strings,
// booleans, and null.
func (n *Numeric) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*n = Numeric{}
		return nil
	}
	switch b[0] {
	case 't':
		*n = Num(1)
		return nil
	case 'f':
		*n = Num(0)
		return nil
	case '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return eris.Wrap(err, "model: unmarshal numeric string")
		}
		v, ok := ParseLooseNumber(s)
		if !ok {
			*n = Numeric{}
			return nil
		}
		*n = Num(v)
		return nil
	default:
		var v float64
		if err := json.Unmarshal(b, &v); err != nil {
			return eris.Wrap(err, "model: unmarshal numeric")
		}
		*n = Num(v)
		return nil
	}
}

// MarshalJSON emits the value, or null when absent.
func (n Numeric) MarshalJSON() ([]byte, error) {
	if _, ok := n.Float(); !ok {
		return []byte("null"), nil
	}
	return json.Marshal(n.Value)
}

var looseNumberCleaner = strings.NewReplacer(
	"$", "", "€", "", "£", "", "%", "", ",", "", " ", "", " ", "",
)

// ParseLooseNumber parses a numeric string after stripping currency
// symbols, percent signs, and thousands separators.
func ParseLooseNumber(s string) (float64, bool) {
	s = looseNumberCleaner.Replace(strings.TrimSpace(s))
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}
