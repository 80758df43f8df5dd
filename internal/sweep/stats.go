package sweep

import (
	"fmt"
	"log/slog"
	"sort"

	"golang.org/x/sys/unix"

	"cargosweep/internal/fingerprint"
)

// ProfileStats summarizes one profile directory.
type ProfileStats struct {
	Profile    string `json:"profile"`
	Units      int    `json:"units"`
	TotalBytes uint64 `json:"total_bytes"`
}

// Stats describes a target root's current usage.
type Stats struct {
	Root             string         `json:"root"`
	Units            int            `json:"units"`
	UnknownToolchain int            `json:"unknown_toolchain"`
	TotalBytes       uint64         `json:"total_bytes"`
	Profiles         []ProfileStats `json:"profiles"`
	DiskTotalBytes   uint64         `json:"disk_total_bytes"`
	DiskFreeBytes    uint64         `json:"disk_free_bytes"`
}

// CollectStats enumerates a target root without classifying anything and
// pairs the totals with the containing filesystem's free space.
func CollectStats(root string, logger *slog.Logger) (*Stats, error) {
	units, err := fingerprint.ParseRoot(root, logger)
	if err != nil {
		return nil, err
	}
	groups := fingerprint.BuildGroups(root, units, logger)

	stats := &Stats{Root: root, Units: len(units)}
	perProfile := make(map[string]*ProfileStats)
	for _, group := range groups {
		stats.TotalBytes += group.TotalSize
		if group.Unit.Toolchain == fingerprint.ToolchainUnknown {
			stats.UnknownToolchain++
		}
		ps, ok := perProfile[group.Unit.Profile]
		if !ok {
			ps = &ProfileStats{Profile: group.Unit.Profile}
			perProfile[group.Unit.Profile] = ps
		}
		ps.Units++
		ps.TotalBytes += group.TotalSize
	}
	for _, ps := range perProfile {
		stats.Profiles = append(stats.Profiles, *ps)
	}
	sort.Slice(stats.Profiles, func(i, j int) bool {
		return stats.Profiles[i].Profile < stats.Profiles[j].Profile
	})

	var fsStat unix.Statfs_t
	if err := unix.Statfs(root, &fsStat); err != nil {
		return nil, fmt.Errorf("statfs %s: %w", root, err)
	}
	stats.DiskTotalBytes = fsStat.Blocks * uint64(fsStat.Bsize)
	stats.DiskFreeBytes = fsStat.Bavail * uint64(fsStat.Bsize)

	return stats, nil
}
