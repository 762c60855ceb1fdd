package models

import "github.com/shopspring/decimal"

// Plan is a purchasable credit pack. Price is in major currency units.
type Plan struct {
	Name    string          `json:"name"`
	Credits int64           `json:"credits"`
	Price   decimal.Decimal `json:"price"`
}

// MinorUnits converts the price to the smallest currency unit (paise, cents).
func (p Plan) MinorUnits() int64 {
	return p.Price.Shift(2).Round(0).IntPart()
}

var plans = map[string]Plan{
	"Basic":    {Name: "Basic", Credits: 100, Price: decimal.NewFromInt(10)},
	"Advanced": {Name: "Advanced", Credits: 500, Price: decimal.NewFromInt(50)},
	"Business": {Name: "Business", Credits: 5000, Price: decimal.NewFromInt(250)},
}

// LookupPlan resolves a plan id. Ids are case sensitive.
func LookupPlan(id string) (Plan, bool) {
	p, ok := plans[id]
	return p, ok
}

// Plans lists the catalogue in ascending price order.
func Plans() []Plan {
	return []Plan{plans["Basic"], plans["Advanced"], plans["Business"]}
}
