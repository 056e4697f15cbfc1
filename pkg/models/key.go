package models

import "strings"

var keyStrip = strings.NewReplacer("(", "", ")", "", "%", "")

// Key converts a wire field name into the key records are indexed by:
// "Last Name" becomes "last_name" and "CONTACTID" becomes "contactid".
func Key(name string) string {
	name = keyStrip.Replace(strings.TrimSpace(name))
	return strings.ToLower(strings.ReplaceAll(name, " ", "_"))
}

// WireName is the fallback used for keys with no field metadata:
// "last_name" becomes "Last Name" and "accountid" becomes "ACCOUNTID".
func WireName(key string) string {
	if len(key) > 2 && !strings.Contains(key, "_") && strings.HasSuffix(key, "id") {
		return strings.ToUpper(key)
	}
	words := strings.Split(key, "_")
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
