package formbuilder

import (
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// =============================================================================
// Clock Tests
// =============================================================================

func TestParseClock(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Clock
		wantErr bool
	}{
		{name: "morning", input: "09:30", want: 570},
		{name: "midnight", input: "00:00", want: 0},
		{name: "last minute", input: "23:59", want: 1439},
		{name: "browser seconds", input: "08:15:42", want: 495},
		{name: "surrounding space", input: " 12:00 ", want: 720},
		{name: "single digit hour", input: "9:30", wantErr: true},
		{name: "hour out of range", input: "24:00", wantErr: true},
		{name: "minute out of range", input: "12:60", wantErr: true},
		{name: "seconds out of range", input: "12:00:61", wantErr: true},
		{name: "no separator", input: "1200", wantErr: true},
		{name: "letters", input: "ab:cd", wantErr: true},
		{name: "empty", input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseClock(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, HasCode(err, ErrCodeInvalidTime))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestClockFormatting(t *testing.T) {
	c, err := NewClock(7, 5)
	require.NoError(t, err)
	assert.Equal(t, "07:05", c.String())
	assert.Equal(t, 7, c.Hour())
	assert.Equal(t, 5, c.Minute())

	_, err = NewClock(25, 0)
	assert.Error(t, err)

	text, err := MustParseClock("18:00").MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "18:00", string(text))

	_, err = Clock(minutesPerDay).MarshalText()
	assert.Error(t, err)

	assert.Panics(t, func() { MustParseClock("noon") })
}

// =============================================================================
// FieldType Tests
// =============================================================================

func TestParseFieldType(t *testing.T) {
	for _, d := range FieldTypeCatalog() {
		got, err := ParseFieldType(string(d.Type))
		require.NoError(t, err)
		assert.Equal(t, d.Type, got)
		assert.True(t, got.Valid())
	}

	_, err := ParseFieldType("signature")
	require.Error(t, err)
	assert.True(t, HasCode(err, ErrCodeUnknownFieldType))
	assert.False(t, FieldType("").Valid())
}

func TestFieldTypeCatalogIsACopy(t *testing.T) {
	catalog := FieldTypeCatalog()
	require.Len(t, catalog, 11)
	catalog[0].Label = "changed"

	assert.Equal(t, "Short text", FieldTypeCatalog()[0].Label)
}

func TestDefaultFieldConfig(t *testing.T) {
	assert.Equal(t, SelectConfig{Options: []string{"Option 1"}}, DefaultFieldConfig(FieldTypeSingleSelect))
	assert.Equal(t, RatingConfig{MaxStars: 5}, DefaultFieldConfig(FieldTypeRating))
	assert.Equal(t, PlainConfig{Type: FieldTypeDate}, DefaultFieldConfig(FieldTypeDate))
	assert.Nil(t, DefaultFieldConfig(FieldType("color")))

	ts := DefaultFieldConfig(FieldTypeTimeslot).(TimeslotConfig)
	assert.Equal(t, "09:00", ts.StartTime.String())
	assert.Equal(t, "18:00", ts.EndTime.String())
	assert.Equal(t, 30, ts.Interval)
	assert.NotNil(t, ts.ExcludedTimes)
}

// =============================================================================
// FieldConfig Validation Tests
// =============================================================================

func TestFieldConfigValidate(t *testing.T) {
	tests := []struct {
		name string
		cfg  FieldConfig
		code string
	}{
		{"plain ok", PlainConfig{Type: FieldTypeEmail}, ""},
		{"plain with config type", PlainConfig{Type: FieldTypeRating}, ErrCodeAttributeMismatch},
		{"plain with unknown type", PlainConfig{Type: "color"}, ErrCodeUnknownFieldType},
		{"select ok", SelectConfig{Options: []string{"a"}}, ""},
		{"select empty", SelectConfig{}, ErrCodeInvalidAttribute},
		{"rating zero", RatingConfig{}, ErrCodeInvalidAttribute},
		{"file empty list ok", FileConfig{}, ""},
		{"file blank pattern", FileConfig{AcceptedFileTypes: []string{".pdf", ""}}, ErrCodeInvalidAttribute},
		{"timeslot ok", TimeslotConfig{StartTime: 540, EndTime: 600, Interval: 15}, ""},
		{"timeslot zero interval", TimeslotConfig{StartTime: 540, EndTime: 600}, ErrCodeInvalidInterval},
		{"timeslot bad end", TimeslotConfig{StartTime: 540, EndTime: 2000, Interval: 15}, ErrCodeInvalidTime},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.code == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, HasCode(err, tt.code), "got %v", err)
		})
	}
}

// =============================================================================
// Field JSON Tests
// =============================================================================

func TestField_MarshalJSON(t *testing.T) {
	id := uuid.MustParse("0190a4b2-0000-7000-8000-000000000001")

	tests := []struct {
		name  string
		field Field
		want  string
	}{
		{
			name:  "plain",
			field: Field{ID: id, Label: "Name", Required: true, Config: PlainConfig{Type: FieldTypeShortText}},
			want:  `{"id":"0190a4b2-0000-7000-8000-000000000001","type":"text","label":"Name","required":true}`,
		},
		{
			name:  "rating",
			field: Field{ID: id, Label: "Mood", Config: RatingConfig{MaxStars: 3}},
			want:  `{"id":"0190a4b2-0000-7000-8000-000000000001","type":"rating","label":"Mood","required":false,"maxStars":3}`,
		},
		{
			name:  "file",
			field: Field{ID: id, Label: "CV", Config: FileConfig{AcceptedFileTypes: []string{".pdf"}}},
			want:  `{"id":"0190a4b2-0000-7000-8000-000000000001","type":"file","label":"CV","required":false,"acceptedFileTypes":[".pdf"]}`,
		},
		{
			name:  "timeslot without exclusions",
			field: Field{ID: id, Label: "Slot", Config: TimeslotConfig{StartTime: 540, EndTime: 600, Interval: 30}},
			want: `{"id":"0190a4b2-0000-7000-8000-000000000001","type":"timeslot","label":"Slot","required":false,
				"timeSettings":{"startTime":"09:00","endTime":"10:00","interval":30,"excludedTimes":[]}}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := json.Marshal(tt.field)
			require.NoError(t, err)
			assert.JSONEq(t, tt.want, string(data))
		})
	}
}

func TestField_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name      string
		json      string
		wantType  FieldType
		wantCfg   FieldConfig
		wantErr   bool
		errCode   string
		errSubstr string
	}{
		{
			name:     "select with options",
			json:     `{"id":"0190a4b2-0000-7000-8000-000000000001","type":"select","label":"Colour","options":["Red","Blue"]}`,
			wantType: FieldTypeSingleSelect,
			wantCfg:  SelectConfig{Options: []string{"Red", "Blue"}},
		},
		{
			name:     "rating falls back to default stars",
			json:     `{"type":"rating","label":"Mood"}`,
			wantType: FieldTypeRating,
			wantCfg:  RatingConfig{MaxStars: 5},
		},
		{
			name:     "attributes of other types are ignored",
			json:     `{"type":"text","label":"Name","maxStars":4}`,
			wantType: FieldTypeShortText,
			wantCfg:  PlainConfig{Type: FieldTypeShortText},
		},
		{
			name:     "timeslot with browser seconds",
			json:     `{"type":"timeslot","label":"Slot","timeSettings":{"startTime":"08:00:00","endTime":"09:00","interval":15,"excludedTimes":["08:15"]}}`,
			wantType: FieldTypeTimeslot,
			wantCfg:  TimeslotConfig{StartTime: 480, EndTime: 540, Interval: 15, ExcludedTimes: []string{"08:15"}},
		},
		{
			name:    "unknown type",
			json:    `{"type":"signature","label":"Sign"}`,
			wantErr: true,
			errCode: ErrCodeUnknownFieldType,
		},
		{
			name:    "invalid interval",
			json:    `{"type":"timeslot","label":"Slot","timeSettings":{"startTime":"08:00","endTime":"09:00","interval":0}}`,
			wantErr: true,
			errCode: ErrCodeInvalidInterval,
		},
		{
			name:    "missing start time",
			json:    `{"type":"timeslot","label":"Slot","timeSettings":{"endTime":"09:00","interval":15}}`,
			wantErr: true,
			errCode: ErrCodeInvalidAttribute,
		},
		{
			name:    "null end time",
			json:    `{"type":"timeslot","label":"Slot","timeSettings":{"startTime":"08:00","endTime":null,"interval":15}}`,
			wantErr: true,
			errCode: ErrCodeInvalidAttribute,
		},
		{
			name:      "bad clock",
			json:      `{"type":"timeslot","label":"Slot","timeSettings":{"startTime":"8am","endTime":"09:00","interval":15}}`,
			wantErr:   true,
			errSubstr: "8am",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var f Field
			err := json.Unmarshal([]byte(tt.json), &f)
			if tt.wantErr {
				require.Error(t, err)
				if tt.errCode != "" {
					assert.True(t, HasCode(err, tt.errCode), "got %v", err)
				}
				if tt.errSubstr != "" {
					assert.Contains(t, err.Error(), tt.errSubstr)
				}
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantType, f.Type())
			assert.Equal(t, tt.wantCfg, f.Config)
		})
	}
}

func TestField_CloneSharesNoSlices(t *testing.T) {
	original := Field{Label: "Colour", Config: SelectConfig{Options: []string{"Red"}}}
	clone := original.Clone()

	clone.Config.(SelectConfig).Options[0] = "Blue"

	assert.Equal(t, []string{"Red"}, original.Config.(SelectConfig).Options)
	assert.Equal(t, FieldType(""), Field{}.Type())
}

// =============================================================================
// FormSchema Tests
// =============================================================================

func TestFormSchema_JSON(t *testing.T) {
	data, err := json.Marshal(FormSchema{Title: "Empty"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"title":"Empty","fields":[]}`, string(data))

	var schema FormSchema
	require.NoError(t, json.Unmarshal([]byte(`{"title":"Survey","fields":[
		{"id":"0190a4b2-0000-7000-8000-000000000001","type":"checkbox","label":"Agree","required":true},
		{"id":"0190a4b2-0000-7000-8000-000000000002","type":"file","label":"CV"}
	]}`), &schema))

	assert.Equal(t, "Survey", schema.Title)
	require.Equal(t, 2, schema.Len())
	assert.Equal(t, 1, schema.IndexOf(uuid.MustParse("0190a4b2-0000-7000-8000-000000000002")))
	assert.Equal(t, -1, schema.IndexOf(uuid.New()))

	field, ok := schema.FieldByID(uuid.MustParse("0190a4b2-0000-7000-8000-000000000001"))
	require.True(t, ok)
	assert.True(t, field.Required)
	assert.Equal(t, ".pdf,.doc,.docx", schema.Fields[1].Config.(FileConfig).Accept())
}

// =============================================================================
// FieldPatch / ViewMode Tests
// =============================================================================

func TestFieldPatch_JSON(t *testing.T) {
	var patch FieldPatch
	assert.True(t, patch.IsEmpty())

	require.NoError(t, json.Unmarshal([]byte(`{"label":"Email","required":false,"options":[]}`), &patch))
	assert.False(t, patch.IsEmpty())
	require.NotNil(t, patch.Label)
	assert.Equal(t, "Email", *patch.Label)
	require.NotNil(t, patch.Required)
	assert.False(t, *patch.Required)
	require.NotNil(t, patch.Options)
	assert.Empty(t, *patch.Options)
	assert.Nil(t, patch.MaxStars)

	var partial FieldPatch
	err := json.Unmarshal([]byte(`{"timeSettings":{"startTime":"09:00","interval":30}}`), &partial)
	require.Error(t, err)
	assert.True(t, HasCode(err, ErrCodeInvalidAttribute))
}

func TestParseViewMode(t *testing.T) {
	for input, want := range map[string]ViewMode{"": ViewModeEdit, "edit": ViewModeEdit, "Preview": ViewModePreview} {
		got, err := ParseViewMode(input)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}

	_, err := ParseViewMode("print")
	assert.True(t, HasCode(err, ErrCodeInvalidViewMode))
}
