// Package pricing приводит прайс-листы провайдера к списку вариантов покупки и считает цену для роли.
package pricing

import (
	"fmt"
	"regexp"
	"sort"

	"github.com/fsdevblog/smsbroker/internal/domain"
	"github.com/shopspring/decimal"
)

const (
	DefaultProfitPercent = 20
	maxProfitPercent     = 500
	priceScale           = 3
)

var (
	priceKeys        = []string{"cost", "price", "activationCost", "activation_cost"}
	providerIDKeys   = []string{"providerId", "provider_id"}
	providerNameKeys = []string{"providerName", "provider_name", "provider", "operator"}
	numericPrice     = regexp.MustCompile(`^\d+(\.\d+)?$`)
)

// Option вариант покупки номера. Priced false означает, что провайдер отдал нечисловую цену.
type Option struct {
	ServiceCode  string
	ServiceName  string
	CountryCode  string
	CountryName  string
	CountryISO2  string
	ProviderID   string
	ProviderName string
	RawPrice     string
	Priced       bool
	BasePrice    decimal.Decimal
	Price        decimal.Decimal
}

// Label строка для отображения варианта.
func (o Option) Label() string {
	label := Flag(o.CountryISO2) + " " + o.CountryName
	if o.ProviderName != "" {
		label += " • " + o.ProviderName
	}
	if !o.Priced {
		return fmt.Sprintf("%s - $%s", label, o.RawPrice)
	}
	return fmt.Sprintf("%s - $%s", label, o.Price.String())
}

// Matches вариант соответствует стране и провайдеру.
func (o Option) Matches(countryCode, providerID string) bool {
	return o.CountryCode == countryCode && o.ProviderID == providerID
}

type priceRow struct {
	country      string
	price        string
	providerID   string
	providerName string
}

// ParsePrices разбирает прайс сервиса service произвольной вложенности.
//
// Алгоритм работы:
//  1. Если ответ обернут в data, разбирается его содержимое.
//  2. Для объекта по странам из узла страны берется вложенный объект сервиса, если он есть. Для массива код
//     страны берется из полей country/countryCode элемента.
//  3. Узел рекурсивно обходится, каждый объект с ценовым ключом дает строку (страна, цена, провайдер). Ключ,
//     под которым лежит объект, считается id провайдера, если он числовой, иначе его названием.
//  4. Строки дедуплицируются по всему кортежу и сортируются по цене, затем по названию страны. Нечисловые цены
//     идут в конце.
func ParsePrices(payload any, service Service, countries Countries) []Option {
	data := payload
	if obj, ok := payload.(map[string]any); ok {
		switch inner := obj["data"].(type) {
		case map[string]any, []any:
			data = inner
		}
	}

	var rows []priceRow
	switch d := data.(type) {
	case map[string]any:
		for _, cc := range sortedKeys(d) {
			if isServiceKey(cc) {
				continue
			}
			node := d[cc]
			if obj, ok := node.(map[string]any); ok {
				if svc, hasService := obj[service.Code]; hasService {
					node = svc
				}
			}
			rows = collectPriceNodes(rows, cc, node, "")
		}
	case []any:
		for _, v := range d {
			obj, ok := v.(map[string]any)
			if !ok {
				continue
			}
			if cc := firstScalar(obj, "country", "countryCode"); cc != "" {
				rows = collectPriceNodes(rows, cc, obj, "")
			}
		}
	}

	seen := make(map[priceRow]struct{}, len(rows))
	out := make([]Option, 0, len(rows))
	for _, r := range rows {
		if r.country == "" || r.price == "" {
			continue
		}
		if _, ok := seen[r]; ok {
			continue
		}
		seen[r] = struct{}{}

		country, ok := countries[r.country]
		if !ok || country.Name == "" {
			country.Name = r.country
		}
		opt := Option{
			ServiceCode:  service.Code,
			ServiceName:  service.Name,
			CountryCode:  r.country,
			CountryName:  country.Name,
			CountryISO2:  country.ISO2,
			ProviderID:   r.providerID,
			ProviderName: r.providerName,
			RawPrice:     r.price,
		}
		if numericPrice.MatchString(r.price) {
			opt.Priced = true
			opt.BasePrice = decimal.RequireFromString(r.price)
			opt.Price = opt.BasePrice
		}
		out = append(out, opt)
	}

	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Priced != b.Priced {
			return a.Priced
		}
		if a.Priced && !a.BasePrice.Equal(b.BasePrice) {
			return a.BasePrice.LessThan(b.BasePrice)
		}
		return a.CountryName < b.CountryName
	})
	return out
}

func collectPriceNodes(rows []priceRow, country string, node any, hint string) []priceRow {
	switch n := node.(type) {
	case map[string]any:
		if price := firstScalar(n, priceKeys...); price != "" {
			row := priceRow{
				country:      country,
				price:        price,
				providerID:   firstScalar(n, providerIDKeys...),
				providerName: firstScalar(n, providerNameKeys...),
			}
			if row.providerID == "" && isDigits(hint) {
				row.providerID = hint
			}
			if row.providerName == "" && hint != "" && !isDigits(hint) {
				row.providerName = hint
			}
			rows = append(rows, row)
		}
		for _, k := range sortedKeys(n) {
			switch n[k].(type) {
			case map[string]any, []any:
				rows = collectPriceNodes(rows, country, n[k], k)
			}
		}
	case []any:
		for _, v := range n {
			rows = collectPriceNodes(rows, country, v, hint)
		}
	}
	return rows
}

// ClampProfit ограничивает процент наценки диапазоном [0, 500].
func ClampProfit(pct decimal.Decimal) decimal.Decimal {
	if pct.IsNegative() {
		return decimal.Zero
	}
	if pct.GreaterThan(decimal.NewFromInt(maxProfitPercent)) {
		return decimal.NewFromInt(maxProfitPercent)
	}
	return pct
}

// Markup цена для роли. Роль с наценкой платит base × (1 + pct/100) с округлением до 3 знаков
// half-up, остальные платят base.
func Markup(base decimal.Decimal, role domain.RoleType, profitPercent decimal.Decimal) decimal.Decimal {
	if !role.PaysMarkup() {
		return base
	}
	mult := decimal.NewFromInt(1).Add(ClampProfit(profitPercent).Div(decimal.NewFromInt(100))) //nolint:mnd
	return base.Mul(mult).Round(priceScale)
}

// ApplyRole возвращает копию вариантов с ценой для роли.
func ApplyRole(opts []Option, role domain.RoleType, profitPercent decimal.Decimal) []Option {
	out := make([]Option, len(opts))
	for i, o := range opts {
		out[i] = o
		if o.Priced {
			out[i].Price = Markup(o.BasePrice, role, profitPercent)
		}
	}
	return out
}
