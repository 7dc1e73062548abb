package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/artem13815/expenses/pkg/apperr"
)

func TestIsUnsafe(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"lunch", false},
		{"john.doe@example.com", false},
		{"<script>alert(1)</script>", true},
		{"Tom & Jerry", true},
		{`say "hi"`, true},
		{"it's", true},
		{"a/b", true},
		{"", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, IsUnsafe(tt.in), tt.in)
	}
}

func TestHasWhitespace(t *testing.T) {
	assert.True(t, HasWhitespace("fast food"))
	assert.True(t, HasWhitespace("tab\there"))
	assert.True(t, HasWhitespace("line\n"))
	assert.False(t, HasWhitespace("food"))
	assert.False(t, HasWhitespace(""))
}

func TestValidPassword(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"Passw0rd!", true},
		{"Aa1@aaaa", true},
		{"Aa1@aaa", false},    // too short
		{"password1!", false}, // no upper
		{"PASSWORD1!", false}, // no lower
		{"Password!!", false}, // no digit
		{"Password11", false}, // no symbol
		{"Passw0rd#", false},  // symbol outside the allowed set
		{"Pass w0rd!", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ValidPassword(tt.in), tt.in)
	}
}

func TestDecode(t *testing.T) {
	_, err := Decode(nil)
	assert.True(t, apperr.Is(err, apperr.KindValidation))

	_, err = Decode([]byte("{}"))
	assert.True(t, apperr.Is(err, apperr.KindValidation))

	_, err = Decode([]byte("[1,2]"))
	assert.True(t, apperr.Is(err, apperr.KindValidation))

	body, err := Decode([]byte(`{"amount":42.5,"category":"food"}`))
	require.NoError(t, err)
	n, ok := body.Number("amount")
	assert.True(t, ok)
	assert.Equal(t, "42.5", n)
	assert.Equal(t, "food", body.String("category"))
}

func TestCheck_RawFieldsSkipSanitizing(t *testing.T) {
	body, err := Decode([]byte(`{"email":"o'brien@example.com","password":"a b&c"}`))
	require.NoError(t, err)

	assert.NoError(t, Check(body,
		Field{Name: "email", Required: true, Raw: true},
		Field{Name: "password", Required: true, Raw: true},
	))
	assert.EqualError(t, Check(body, Field{Name: "email", Required: true}), MsgUnsafeInput)

	body, err = Decode([]byte(`{"email":7}`))
	require.NoError(t, err)
	assert.EqualError(t, Check(body, Field{Name: "email", Required: true, Raw: true}), "email must be a string")
}

func expenseFields() []Field {
	return []Field{
		{Name: "amount", Type: Number, Required: true},
		{Name: "description", Required: true, FreeText: true},
		{Name: "userId", Required: true},
		{Name: "category", Required: true},
		{Name: "date"},
	}
}

func TestCheck(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		wantErr string
	}{
		{
			name: "valid",
			raw:  `{"amount":42.5,"description":"team lunch","userId":"u1","category":"food"}`,
		},
		{
			name:    "missing fields",
			raw:     `{"amount":42.5,"description":"lunch"}`,
			wantErr: "Missing required fields: userId, category",
		},
		{
			name:    "empty string counts as missing",
			raw:     `{"amount":1,"description":"","userId":"u1","category":"food"}`,
			wantErr: "Missing required fields: description",
		},
		{
			name:    "amount as text",
			raw:     `{"amount":"42.5","description":"lunch","userId":"u1","category":"food"}`,
			wantErr: "amount must be a number",
		},
		{
			name:    "category as number",
			raw:     `{"amount":1,"description":"lunch","userId":"u1","category":7}`,
			wantErr: "category must be a string",
		},
		{
			name:    "script in description",
			raw:     `{"amount":1,"description":"<script>","userId":"u1","category":"food"}`,
			wantErr: MsgUnsafeInput,
		},
		{
			name:    "space in category",
			raw:     `{"amount":1,"description":"lunch","userId":"u1","category":"fast food"}`,
			wantErr: MsgUnsafeInput,
		},
		{
			name:    "space in optional date",
			raw:     `{"amount":1,"description":"lunch","userId":"u1","category":"food","date":"2024-01-01 10:00"}`,
			wantErr: MsgUnsafeInput,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body, err := Decode([]byte(tt.raw))
			require.NoError(t, err)

			err = Check(body, expenseFields()...)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, apperr.Is(err, apperr.KindValidation))
			assert.Equal(t, tt.wantErr, err.Error())
		})
	}
}
