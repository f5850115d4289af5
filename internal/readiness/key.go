package readiness

import (
	"crypto/md5"
	"encoding/hex"
	"slices"
	"strconv"
	"strings"
)

// Fingerprint derives a stable cache key from a skill profile: skills are
// sorted by name and hashed as "skill:level" pairs joined with "|". The hash
// identifies profiles, it is not a security boundary.
func Fingerprint(skills []UserSkill) string {
	sorted := slices.Clone(skills)
	slices.SortStableFunc(sorted, func(a, b UserSkill) int {
		return strings.Compare(a.Skill, b.Skill)
	})

	pairs := make([]string, 0, len(sorted))
	for _, s := range sorted {
		pairs = append(pairs, s.Skill+":"+strconv.Itoa(s.Level))
	}

	sum := md5.Sum([]byte(strings.Join(pairs, "|")))
	return hex.EncodeToString(sum[:])
}

func roleKey(fingerprint, role string) string {
	return fingerprint + "_" + role
}
