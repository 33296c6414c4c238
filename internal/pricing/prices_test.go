package pricing

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/fsdevblog/smsbroker/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

type PricesTestSuite struct {
	suite.Suite
	service   Service
	countries Countries
}

func TestPricesSuite(t *testing.T) {
	suite.Run(t, new(PricesTestSuite))
}

func (s *PricesTestSuite) SetupTest() {
	s.service = Service{Code: "tg", Name: "Telegram"}
	s.countries = Countries{
		"0":  {Name: "Russia", ISO2: "RU"},
		"6":  {Name: "Indonesia", ISO2: "ID"},
		"16": {Name: "United Kingdom", ISO2: "GB"},
	}
}

// decode разбирает JSON так же, как клиент провайдера: числа остаются json.Number.
func (s *PricesTestSuite) decode(raw string) any {
	dec := json.NewDecoder(bytes.NewReader([]byte(raw)))
	dec.UseNumber()
	var v any
	s.Require().NoError(dec.Decode(&v))
	return v
}

func (s *PricesTestSuite) TestParsePrices_CountryKeyedNested() {
	payload := s.decode(`{
		"6": {"tg": {"2295": {"price": 0.3, "count": 10}, "3027": {"price": "0.25", "providerName": "Fast"}}},
		"0": {"tg": {"cost": 0.3, "count": 5}},
		"status": "success"
	}`)

	opts := ParsePrices(payload, s.service, s.countries)

	s.Require().Len(opts, 3)
	s.Equal("0.25", opts[0].RawPrice)
	s.Equal("3027", opts[0].ProviderID)
	s.Equal("Fast", opts[0].ProviderName)
	// одинаковая цена, сортировка по названию страны.
	s.Equal("Indonesia", opts[1].CountryName)
	s.Equal("2295", opts[1].ProviderID)
	s.Equal("Russia", opts[2].CountryName)
	s.Empty(opts[2].ProviderID)
	s.Equal("tg", opts[2].ServiceCode)
}

func (s *PricesTestSuite) TestParsePrices_FlatListAndDedupe() {
	payload := s.decode(`{"data": [
		{"country": "16", "cost": "1.5", "operator": "vodafone"},
		{"country": "16", "cost": "1.5", "operator": "vodafone"},
		{"countryCode": "0", "cost": "n/a"},
		{"cost": "0.1"}
	]}`)

	opts := ParsePrices(payload, s.service, s.countries)

	s.Require().Len(opts, 2)
	s.Equal("United Kingdom", opts[0].CountryName)
	s.Equal("vodafone", opts[0].ProviderName)
	s.True(opts[0].Priced)
	// нечисловая цена идет последней.
	s.False(opts[1].Priced)
	s.Equal("n/a", opts[1].RawPrice)
}

func (s *PricesTestSuite) TestParsePrices_UnknownCountryAndGarbage() {
	opts := ParsePrices(s.decode(`{"999": {"price": 2}}`), s.service, s.countries)
	s.Require().Len(opts, 1)
	s.Equal("999", opts[0].CountryName)

	s.Empty(ParsePrices("BAD_SERVICE", s.service, s.countries))
	s.Empty(ParsePrices(nil, s.service, s.countries))
}

func (s *PricesTestSuite) TestMarkup() {
	base := decimal.RequireFromString("0.1235")
	pct := decimal.NewFromInt(20)

	s.True(base.Equal(Markup(base, domain.RoleAdmin, pct)))
	s.True(base.Equal(Markup(base, domain.RoleSuper, pct)))
	// 0.1235 * 1.2 = 0.1482 -> 0.148
	s.Equal("0.148", Markup(base, domain.RoleUser, pct).String())
	// 0.00125 * 1.2 = 0.0015 -> 0.002 (half-up)
	s.Equal("0.002", Markup(decimal.RequireFromString("0.00125"), domain.RoleUser, pct).String())
}

func (s *PricesTestSuite) TestMarkup_RoundTripProperty() {
	pct := decimal.NewFromInt(20)
	mult := decimal.RequireFromString("1.20")
	for _, raw := range []string{"0", "0.001", "0.05", "0.333", "1", "2.5555", "17.0415"} {
		base := decimal.RequireFromString(raw)
		s.True(base.Equal(Markup(base, domain.RoleAdmin, pct)), raw)
		s.True(base.Mul(mult).Round(3).Equal(Markup(base, domain.RoleUser, pct)), raw)
	}
}

func (s *PricesTestSuite) TestClampProfit() {
	s.True(decimal.Zero.Equal(ClampProfit(decimal.NewFromInt(-5))))
	s.True(decimal.NewFromInt(500).Equal(ClampProfit(decimal.NewFromInt(900))))
	s.True(decimal.NewFromInt(35).Equal(ClampProfit(decimal.NewFromInt(35))))

	// наценка выше 500% не применяется.
	s.Equal("6", Markup(decimal.NewFromInt(1), domain.RoleUser, decimal.NewFromInt(1000)).String())
}

func (s *PricesTestSuite) TestApplyRole() {
	opts := []Option{
		{CountryCode: "0", Priced: true, BasePrice: decimal.NewFromInt(2), Price: decimal.NewFromInt(2)},
		{CountryCode: "6", RawPrice: "free"},
	}

	priced := ApplyRole(opts, domain.RoleUser, decimal.NewFromInt(20))

	s.Equal("2.4", priced[0].Price.String())
	s.True(priced[1].Price.IsZero())
	// исходный срез не меняется.
	s.Equal("2", opts[0].Price.String())
}
