package migration

import (
	"strings"
	"unicode"

	"restaurant/models"
)

// Signal weights. Signals are independent; their sum is capped at 1.
const (
	NameWeight    = 0.80
	PhoneWeight   = 0.90
	AddressWeight = 0.60

	// DefaultThreshold is the minimum confidence for a migratable match.
	DefaultThreshold = 0.5
)

// NormalizePhone keeps the digits and drops country code prefixes by taking
// the last ten. Numbers with fewer than seven digits normalise to "".
func NormalizePhone(phone string) string {
	var b strings.Builder
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	digits := b.String()
	if len(digits) < 7 {
		return ""
	}
	if len(digits) > 10 {
		digits = digits[len(digits)-10:]
	}
	return digits
}

func tokens(s string) []string {
	return strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

// AddressMatches compares a free-form order address with a profile address:
// either the street appears inside it, or more than half of the street and
// city tokens do.
func AddressMatches(orderAddress string, addr models.Address) bool {
	order := strings.ToLower(strings.TrimSpace(orderAddress))
	street := strings.ToLower(strings.TrimSpace(addr.Street))
	if order == "" || (street == "" && strings.TrimSpace(addr.City) == "") {
		return false
	}
	if street != "" && strings.Contains(order, street) {
		return true
	}

	have := map[string]bool{}
	for _, t := range tokens(order) {
		have[t] = true
	}
	want := tokens(addr.Street + " " + addr.City)
	if len(want) == 0 {
		return false
	}
	hit := 0
	for _, t := range want {
		if have[t] {
			hit++
		}
	}
	return hit*2 > len(want)
}

// Score is the confidence that order belongs to profile.
func Score(order models.Order, profile models.CustomerProfile) float64 {
	var score float64
	name := strings.TrimSpace(order.CustomerName)
	if name != "" && strings.EqualFold(name, strings.TrimSpace(profile.DisplayName)) {
		score += NameWeight
	}
	if phone := NormalizePhone(order.CustomerPhone); phone != "" && phone == NormalizePhone(profile.Phone) {
		score += PhoneWeight
	}
	for _, addr := range profile.Addresses {
		if AddressMatches(order.DeliveryAddress, addr) {
			score += AddressWeight
			break
		}
	}
	if score > 1 {
		score = 1
	}
	return score
}

type candidate struct {
	profile    models.CustomerProfile
	confidence float64
}

// bestCandidate picks the highest confidence profile. Ties go to the profile
// with more migrated orders, then to the earlier profile.
func bestCandidate(order models.Order, profiles []models.CustomerProfile) (candidate, int) {
	var best candidate
	matches := 0
	for _, p := range profiles {
		conf := Score(order, p)
		if conf == 0 {
			continue
		}
		matches++
		switch {
		case conf > best.confidence:
			best = candidate{profile: p, confidence: conf}
		case conf == best.confidence && p.MigratedOrders() > best.profile.MigratedOrders():
			best = candidate{profile: p, confidence: conf}
		}
	}
	return best, matches
}
