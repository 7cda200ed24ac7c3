package surface

import "fmt"

// Zone ID constants for mouse hit detection on the key surface.
// Uses bubblezone to map terminal coordinates back to grid cells.
// zoneKeyPrefix is the prefix for key cap zone IDs.
const zoneKeyPrefix = "surface-key:"

// keyZoneID creates a zone ID for one key cap.
func keyZoneID(row, col int) string {
	return fmt.Sprintf("%s%d:%d", zoneKeyPrefix, row, col)
}
