package pricing

import (
	"testing"

	"github.com/stretchr/testify/suite"
)

type CatalogTestSuite struct {
	suite.Suite
}

func TestCatalogSuite(t *testing.T) {
	suite.Run(t, new(CatalogTestSuite))
}

func (s *CatalogTestSuite) TestParseServices() {
	testCases := []struct {
		name    string
		payload any
		want    []Service
	}{
		{
			name: "list in services",
			payload: map[string]any{"services": []any{
				map[string]any{"code": "wa", "name": "WhatsApp"},
				map[string]any{"code": "tg", "name": "Telegram"},
				map[string]any{"code": "tg", "name": "Telegram dup"},
				map[string]any{"name": "no code"},
			}},
			want: []Service{{Code: "tg", Name: "Telegram"}, {Code: "wa", Name: "WhatsApp"}},
		},
		{
			name:    "code to name map",
			payload: map[string]any{"status": "success", "fb": "Facebook", "ig": map[string]any{"title": "Instagram"}},
			want:    []Service{{Code: "fb", Name: "Facebook"}, {Code: "ig", Name: "Instagram"}},
		},
		{
			name:    "plain list",
			payload: []any{map[string]any{"id": "go"}},
			want:    []Service{{Code: "go", Name: "go"}},
		},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			s.Equal(tc.want, ParseServices(tc.payload))
		})
	}
}

func (s *CatalogTestSuite) TestParseCountries() {
	countries := ParseCountries(map[string]any{
		"0":       map[string]any{"eng": "Russia", "iso": "ru"},
		"6":       "Indonesia",
		"message": "ok",
	})
	s.Equal(Countries{"0": {Name: "Russia", ISO2: "RU"}, "6": {Name: "Indonesia"}}, countries)

	countries = ParseCountries(map[string]any{"data": []any{
		map[string]any{"id": "16", "name": "United Kingdom", "alpha2": "GB"},
		map[string]any{"name": "no id"},
	}})
	s.Equal(Countries{"16": {Name: "United Kingdom", ISO2: "GB"}}, countries)
}

func (s *CatalogTestSuite) TestMatchServices() {
	services := []Service{
		{Code: "tg", Name: "Telegram"},
		{Code: "wa", Name: "WhatsApp"},
		{Code: "fb", Name: "Facebook Messenger"},
	}

	s.Equal([]Service{{Code: "tg", Name: "Telegram"}}, MatchServices("телеграм", services))
	s.Equal([]Service{{Code: "wa", Name: "WhatsApp"}}, MatchServices("WA", services))
	s.Equal([]Service{{Code: "fb", Name: "Facebook Messenger"}}, MatchServices("  messenger ", services))
	s.Empty(MatchServices("", services))
}

func (s *CatalogTestSuite) TestFlag() {
	s.Equal("🇷🇺", Flag("ru"))
	s.Equal("🌍", Flag(""))
	s.Equal("🌍", Flag("R1"))
}
