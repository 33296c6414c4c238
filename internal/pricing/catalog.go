package pricing

import (
	"regexp"
	"sort"
	"strings"
)

type Service struct {
	Code string
	Name string
}

type Country struct {
	Name string
	ISO2 string
}

// Countries справочник стран провайдера по коду страны.
type Countries map[string]Country

// ParseServices разбирает список сервисов. Поддерживаются массив объектов, объект с массивом в
// services/data и объект вида код→название. Результат без дубликатов и отсортирован по названию.
func ParseServices(payload any) []Service {
	var items []Service
	fromList := func(list []any) {
		for _, x := range list {
			obj, ok := x.(map[string]any)
			if !ok {
				continue
			}
			code := firstScalar(obj, "code", "id")
			if code == "" {
				continue
			}
			name := firstScalar(obj, "name", "title")
			if name == "" {
				name = code
			}
			items = append(items, Service{Code: code, Name: name})
		}
	}

	switch p := payload.(type) {
	case []any:
		fromList(p)
	case map[string]any:
		if list, ok := p["services"].([]any); ok {
			fromList(list)
			break
		}
		if list, ok := p["data"].([]any); ok {
			fromList(list)
			break
		}
		for _, k := range sortedKeys(p) {
			if isServiceKey(k) {
				continue
			}
			switch v := p[k].(type) {
			case string:
				items = append(items, Service{Code: k, Name: v})
			case map[string]any:
				code := firstScalar(v, "code")
				if code == "" {
					code = k
				}
				name := firstScalar(v, "name", "title")
				if name == "" {
					name = code
				}
				items = append(items, Service{Code: code, Name: name})
			}
		}
	}

	seen := make(map[string]struct{}, len(items))
	out := make([]Service, 0, len(items))
	for _, s := range items {
		if _, ok := seen[s.Code]; ok {
			continue
		}
		seen[s.Code] = struct{}{}
		out = append(out, s)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return strings.ToLower(out[i].Name) < strings.ToLower(out[j].Name)
	})
	return out
}

// ParseCountries разбирает справочник стран: массив объектов, объект с массивом в countries/data или
// объект вида код→название/объект.
func ParseCountries(payload any) Countries {
	out := make(Countries)
	fromObject := func(id string, obj map[string]any) {
		name := firstScalar(obj, "name", "title", "eng", "rus", "country_name")
		if name == "" {
			name = id
		}
		out[id] = Country{
			Name: name,
			ISO2: strings.ToUpper(firstScalar(obj, "iso", "iso2", "countryCode", "alpha2")),
		}
	}
	fromList := func(list []any) {
		for _, x := range list {
			obj, ok := x.(map[string]any)
			if !ok {
				continue
			}
			id := firstScalar(obj, "id", "country", "code")
			if id == "" {
				continue
			}
			fromObject(id, obj)
		}
	}

	switch p := payload.(type) {
	case []any:
		fromList(p)
	case map[string]any:
		if list, ok := p["countries"].([]any); ok {
			fromList(list)
			break
		}
		if list, ok := p["data"].([]any); ok {
			fromList(list)
			break
		}
		for k, v := range p {
			if isServiceKey(k) {
				continue
			}
			switch x := v.(type) {
			case string:
				name := strings.TrimSpace(x)
				if name == "" {
					name = k
				}
				out[k] = Country{Name: name}
			case map[string]any:
				fromObject(k, x)
			}
		}
	}
	return out
}

var serviceAliases = map[string][]string{
	"facebook":  {"facebook", "fb", "ফেসবুক", "फेसबुक", "فيسبوك", "фейсбук"},
	"telegram":  {"telegram", "tg", "টেলিগ্রাম", "टेलीग्राम", "تيليجرام", "телеграм"},
	"whatsapp":  {"whatsapp", "wa", "হোয়াটসঅ্যাপ", "व्हाट्सऐप", "واتساب", "ватсап"},
	"instagram": {"instagram", "insta", "ইনস্টাগ্রাম", "इंस्टाग्राम", "انستغرام", "инстаграм"},
	"google":    {"google", "gmail", "গুগল", "गूगल", "جوجل", "гугл"},
}

var spaces = regexp.MustCompile(`\s+`)

func normalize(s string) string {
	return spaces.ReplaceAllString(strings.ToLower(strings.TrimSpace(s)), " ")
}

// MatchServices ищет сервисы по подстроке названия, точному коду или известному синониму.
func MatchServices(query string, services []Service) []Service {
	q := normalize(query)
	if q == "" {
		return nil
	}

	var canon []string
	for c, aliases := range serviceAliases {
		if q == c {
			canon = append(canon, c)
			continue
		}
		for _, alias := range aliases {
			if q == alias {
				canon = append(canon, c)
				break
			}
		}
	}

	seen := make(map[string]struct{})
	var out []Service
	for _, s := range services {
		name := normalize(s.Name)
		hit := strings.Contains(name, q) || normalize(s.Code) == q
		for _, c := range canon {
			if strings.Contains(name, c) {
				hit = true
			}
		}
		if !hit {
			continue
		}
		if _, ok := seen[s.Code]; ok {
			continue
		}
		seen[s.Code] = struct{}{}
		out = append(out, s)
	}
	return out
}

// Flag возвращает эмодзи флага по коду ISO 3166-1 alpha-2.
func Flag(iso2 string) string {
	if len(iso2) != 2 { //nolint:mnd
		return "🌍"
	}
	s := strings.ToUpper(iso2)
	if s[0] < 'A' || s[0] > 'Z' || s[1] < 'A' || s[1] > 'Z' {
		return "🌍"
	}
	const regionalIndicatorOffset = 127397
	return string([]rune{rune(s[0]) + regionalIndicatorOffset, rune(s[1]) + regionalIndicatorOffset})
}
