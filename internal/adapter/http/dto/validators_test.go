package dto

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// --- SanitizeStruct tests ---

func TestSanitizeStruct_TrimsWhitespace(t *testing.T) {
	req := RegisterRequest{
		Username: "  alice  ",
		Password: "  pass1234  ",
		Name:     " Green Corp ",
		Address:  " addr-green ",
	}
	SanitizeStruct(&req)

	assert.Equal(t, "alice", req.Username)
	assert.Equal(t, "pass1234", req.Password)
	assert.Equal(t, "Green Corp", req.Name)
	assert.Equal(t, "addr-green", req.Address)
}

func TestSanitizeStruct_EscapesHTML(t *testing.T) {
	req := ProjectCompleteRequest{
		Amount:      100,
		ProjectName: "wind <script>alert('x')</script> farm",
	}
	SanitizeStruct(&req)

	assert.Contains(t, req.ProjectName, "&lt;script&gt;")
	assert.NotContains(t, req.ProjectName, "<script>")
}

func TestSanitizeStruct_HandlesPointerString(t *testing.T) {
	sink := "  addr-beneficiary  "
	req := OffsetRequest{
		Amount:      25,
		SourceParty: "addr-src",
		SinkParty:   &sink,
		ToProject:   "reforestation-br",
	}
	SanitizeStruct(&req)

	assert.Equal(t, "addr-beneficiary", *req.SinkParty)
}

func TestSanitizeStruct_NilPointerIsNoOp(t *testing.T) {
	req := OffsetRequest{
		Amount:      25,
		SourceParty: "addr-src",
		SinkParty:   nil,
		ToProject:   "reforestation-br",
	}
	SanitizeStruct(&req)
	assert.Nil(t, req.SinkParty)
}

func TestSanitizeStruct_NonPointerIsNoOp(t *testing.T) {
	s := "hello"
	SanitizeStruct(s) // should not panic
}

// --- Custom Validator tests ---

func TestSafeID_Valid(t *testing.T) {
	cases := []string{
		"addr-001",
		"ADDR_002",
		"a.b.c",
		"simple123",
		"registry:central",
		"round:7:custody",
	}
	for _, tc := range cases {
		assert.True(t, safeStringRe.MatchString(tc), "expected valid: %s", tc)
	}
}

func TestSafeID_Invalid(t *testing.T) {
	cases := []string{
		"has space",
		"semi;colon",
		"quote'",
		"<tag>",
		"",
		"new\nline",
	}
	for _, tc := range cases {
		assert.False(t, safeStringRe.MatchString(tc), "expected invalid: %s", tc)
	}
}
