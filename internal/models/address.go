package models

// Address holds the attributes of a reverse-geocoded location as stored in the
// TeslaMate addresses table. OsmID and OsmType together form the natural key:
// no two address rows may share the same (osm_id, osm_type) pair.
type Address struct {
	ID            int64   // ID is the database identifier, zero until stored.
	Latitude      float64 // Latitude of the query coordinate, not the provider's.
	Longitude     float64 // Longitude of the query coordinate, not the provider's.
	DisplayName   string  // DisplayName is the provider's full human-readable address.
	Name          string  // Name is derived from road and house number, see DeriveName.
	HouseNumber   string
	Road          string
	Neighbourhood string
	City          string
	County        string
	Postcode      string
	State         string
	StateDistrict string
	Country       string
	Raw           string // Raw is the provider's address object as a JSON string.
	OsmID         int64  // OsmID is the OpenStreetMap identifier of the matched entity.
	OsmType       string // OsmType classifies the entity: node, way or relation.
}

// DeriveName builds the short address name the way TeslaMate does, since the
// provider returns an empty name field: "road house_number" when both are
// present, the road alone otherwise, or an empty string.
func DeriveName(road, houseNumber string) string {
	switch {
	case road != "" && houseNumber != "":
		return road + " " + houseNumber
	case road != "":
		return road
	default:
		return ""
	}
}
