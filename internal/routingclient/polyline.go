package routingclient

// Encode/decode the Google Encoded Polyline Algorithm Format at precision
// 5, used to carry route geometry (spec.md §6, supplemented). None of the
// example repos import a polyline library — this is a small, fully
// specified algorithm with no third-party surface worth pulling in a
// dependency for, so it stays on the standard library (see DESIGN.md).

const polylinePrecision = 1e5

func encodePolyline(points [][2]float64) string {
	var buf []byte
	prevLat, prevLon := 0, 0
	for _, pt := range points {
		lat := int(round(pt[1] * polylinePrecision))
		lon := int(round(pt[0] * polylinePrecision))
		buf = encodeSignedNumber(buf, lat-prevLat)
		buf = encodeSignedNumber(buf, lon-prevLon)
		prevLat, prevLon = lat, lon
	}
	return string(buf)
}

func decodePolyline(s string) [][2]float64 {
	var points [][2]float64
	lat, lon := 0, 0
	i := 0
	for i < len(s) {
		dlat, next := decodeSignedNumber(s, i)
		i = next
		dlon, next2 := decodeSignedNumber(s, i)
		i = next2
		lat += dlat
		lon += dlon
		points = append(points, [2]float64{float64(lon) / polylinePrecision, float64(lat) / polylinePrecision})
	}
	return points
}

func encodeSignedNumber(buf []byte, v int) []byte {
	shifted := v << 1
	if v < 0 {
		shifted = ^shifted
	}
	for shifted >= 0x20 {
		buf = append(buf, byte((0x20|(shifted&0x1f))+63))
		shifted >>= 5
	}
	return append(buf, byte(shifted+63))
}

func decodeSignedNumber(s string, i int) (int, int) {
	result, shift := 0, 0
	for {
		b := int(s[i]) - 63
		i++
		result |= (b & 0x1f) << shift
		shift += 5
		if b < 0x20 {
			break
		}
	}
	if result&1 != 0 {
		return ^(result >> 1), i
	}
	return result >> 1, i
}

func round(v float64) float64 {
	if v < 0 {
		return -(-v + 0.5)
	}
	return v + 0.5
}
