package provider

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

type DecodeTestSuite struct {
	suite.Suite
}

func TestDecodeSuite(t *testing.T) {
	suite.Run(t, new(DecodeTestSuite))
}

func (s *DecodeTestSuite) TestParsePayload() {
	s.Equal("ACCESS_NUMBER:1:2", ParsePayload([]byte("  ACCESS_NUMBER:1:2\n")).Value())
	s.Equal("{broken", ParsePayload([]byte("{broken")).Value())
	s.IsType(map[string]any{}, ParsePayload([]byte(`{"a":1}`)).Value())
	s.True(ParsePayload([]byte("[]")).IsEmpty())
}

func (s *DecodeTestSuite) TestDecodeNumber() {
	testCases := []struct {
		name      string
		body      string
		wantID    string
		wantPhone string
		wantKind  ErrorKind
		wantToken string
	}{
		{name: "text", body: "ACCESS_NUMBER:100:+1 (555) 010-20", wantID: "100", wantPhone: "+155501020"},
		{name: "json", body: `{"activationId":123,"phoneNumber":"0044 7700 900"}`, wantID: "123", wantPhone: "+447700900"},
		{name: "json alt keys", body: `{"id":"9","number":"380501112233"}`, wantID: "9", wantPhone: "+380501112233"},
		{name: "known token", body: "BAD_SERVICE", wantKind: KindBadService, wantToken: "BAD_SERVICE"},
		{name: "unknown token", body: "NO_NUMBERS", wantKind: KindGeneric, wantToken: "NO_NUMBERS"},
		{name: "json error", body: `{"error":"BAD_KEY"}`, wantKind: KindBadKey, wantToken: "BAD_KEY"},
		{name: "malformed", body: "ACCESS_NUMBER:1", wantKind: KindGeneric, wantToken: "ACCESS_NUMBER:1"},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			number, err := DecodeNumber(ParsePayload([]byte(tc.body)))
			if tc.wantID != "" {
				s.Require().NoError(err)
				s.Equal(tc.wantID, number.ActivationID)
				s.Equal(tc.wantPhone, number.Phone)
				return
			}
			var rejected *RejectedError
			s.Require().ErrorAs(err, &rejected)
			s.Equal(tc.wantKind, rejected.Kind)
			s.Equal(tc.wantToken, rejected.Token)
		})
	}
}

func (s *DecodeTestSuite) TestDecodeStatus_JSONOkWithoutCodeWaits() {
	s.Equal(Wait{}, DecodeStatus(ParsePayload([]byte(`{"status":"OK"}`))))
	s.Equal(Failure{Reason: unknownToken}, DecodeStatus(ParsePayload([]byte(`["x"]`))))
	s.Equal(KindEarlyCancelDenied, Failure{Reason: "EARLY_CANCEL_DENIED"}.Kind())
}

func (s *DecodeTestSuite) TestDecodeBalance() {
	balance, err := DecodeBalance(ParsePayload([]byte(`{"balance":"3.5"}`)))
	s.Require().NoError(err)
	s.True(decimal.RequireFromString("3.5").Equal(balance))

	_, err = DecodeBalance(ParsePayload([]byte("BAD_KEY")))
	var rejected *RejectedError
	s.Require().ErrorAs(err, &rejected)
	s.Equal(KindBadKey, rejected.Kind)
}

func (s *DecodeTestSuite) TestNormalizePhone() {
	s.Equal("+79001234567", NormalizePhone("79001234567"))
	s.Equal("+12", NormalizePhone("0012"))
	s.Equal("+0012", NormalizePhone("+0012"))
	s.Equal("", NormalizePhone("  "))
	s.Equal("abc", NormalizePhone("abc"))
}
