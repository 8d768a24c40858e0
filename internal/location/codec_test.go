package location

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/campusworks/repair-service/pkg/util/errorutil"
)

var directory = []string{"อาคาร 1", "อาคาร 2", "อาคารวิศวกรรม"}

func TestEncodeIndoor(t *testing.T) {
	encoded, err := Encode(Location{Kind: KindIndoor, Building: "อาคาร 1", Floor: "2", Room: "201"})
	require.NoError(t, err)
	assert.Equal(t, "อาคาร 1 ชั้น 2 ห้อง 201", encoded)
}

func TestEncodeOutdoor(t *testing.T) {
	encoded, err := Encode(Location{Kind: KindOutdoor, Text: "ลานจอดรถ"})
	require.NoError(t, err)
	assert.Equal(t, "ภายนอกอาคาร: ลานจอดรถ", encoded)
}

func TestEncodeIndoorMissingFields(t *testing.T) {
	cases := []Location{
		{Kind: KindIndoor, Floor: "2", Room: "201"},
		{Kind: KindIndoor, Building: "อาคาร 1", Room: "201"},
		{Kind: KindIndoor, Building: "อาคาร 1", Floor: "2"},
		{Kind: KindIndoor, Building: "  ", Floor: "2", Room: "201"},
	}
	for _, loc := range cases {
		_, err := Encode(loc)
		require.Error(t, err)
		assert.True(t, apperrors.IsCode(err, "VALIDATION_FAILED"))
	}
}

func TestEncodeRejectsUndecodableFields(t *testing.T) {
	cases := []Location{
		{Kind: KindIndoor, Building: "อาคาร 1", Floor: "G", Room: "101"},
		{Kind: KindIndoor, Building: "อาคาร 1", Floor: "ใต้ดิน", Room: "101"},
		{Kind: KindIndoor, Building: "อาคาร 1", Floor: "2", Room: "201 A"},
		{Kind: KindIndoor, Building: "อาคาร 1", Floor: "2", Room: "ห้องน้ำ ชาย"},
	}
	for _, loc := range cases {
		_, err := Encode(loc)
		require.Error(t, err, "floor %q room %q", loc.Floor, loc.Room)
		assert.True(t, apperrors.IsCode(err, "VALIDATION_FAILED"))
	}
}

func TestEncodeAcceptedValuesAlwaysRoundTrip(t *testing.T) {
	// every value Encode accepts must come back identical through Decode
	locations := []Location{
		{Kind: KindIndoor, Building: "อาคาร 1", Floor: "2", Room: "201"},
		{Kind: KindIndoor, Building: "อาคาร 2", Floor: "12", Room: "B-07"},
		{Kind: KindIndoor, Building: "อาคารวิศวกรรม", Floor: "1", Room: "Lab3"},
	}
	for _, original := range locations {
		encoded, err := Encode(original)
		require.NoError(t, err)
		assert.Equal(t, original, Decode(encoded, directory), "round trip for %q", encoded)
	}
}

func TestEncodeOutdoorEmptyText(t *testing.T) {
	_, err := Encode(Location{Kind: KindOutdoor, Text: "   "})
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, "VALIDATION_FAILED"))
}

func TestEncodeUnknownKind(t *testing.T) {
	_, err := Encode(Location{Kind: "garden"})
	require.Error(t, err)
}

func TestRoundTripIndoor(t *testing.T) {
	locations := []Location{
		{Kind: KindIndoor, Building: "อาคาร 1", Floor: "2", Room: "201"},
		{Kind: KindIndoor, Building: "อาคาร 2", Floor: "10", Room: "1004A"},
		{Kind: KindIndoor, Building: "อาคารวิศวกรรม", Floor: "1", Room: "B12"},
	}
	for _, original := range locations {
		encoded, err := Encode(original)
		require.NoError(t, err)
		decoded := Decode(encoded, directory)
		assert.Equal(t, original, decoded, "round trip for %q", encoded)
	}
}

func TestRoundTripOutdoor(t *testing.T) {
	original := Location{Kind: KindOutdoor, Text: "ลานจอดรถ"}
	encoded, err := Encode(original)
	require.NoError(t, err)
	decoded := Decode(encoded, directory)
	assert.Equal(t, original, decoded)
}

func TestDecodeUnknownBuildingLeavesFieldEmpty(t *testing.T) {
	decoded := Decode("ตึกลึกลับ ชั้น 3 ห้อง 305", directory)
	assert.Equal(t, KindIndoor, decoded.Kind)
	assert.Empty(t, decoded.Building)
	assert.Equal(t, "3", decoded.Floor)
	assert.Equal(t, "305", decoded.Room)
	assert.False(t, decoded.Complete())
}

func TestDecodeGarbageNeverErrors(t *testing.T) {
	decoded := Decode("somewhere on campus", directory)
	assert.Equal(t, KindIndoor, decoded.Kind)
	assert.Empty(t, decoded.Building)
	assert.Empty(t, decoded.Floor)
	assert.Empty(t, decoded.Room)
}

func TestDecodeRoomStopsAtWhitespace(t *testing.T) {
	decoded := Decode("อาคาร 1 ชั้น 2 ห้อง 201 ใกล้บันได", directory)
	assert.Equal(t, "201", decoded.Room)
}

func TestDecodeOutdoorTrims(t *testing.T) {
	decoded := Decode("ภายนอกอาคาร:   สนามหญ้าหลังตึก  ", directory)
	assert.Equal(t, KindOutdoor, decoded.Kind)
	assert.Equal(t, "สนามหญ้าหลังตึก", decoded.Text)
	assert.True(t, decoded.Complete())
}
