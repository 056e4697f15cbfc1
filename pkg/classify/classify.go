// Package classify decides what kind of key a field is for a module.
//
// Three predicates are ordered by how specific a lookup they allow: a module's
// own primary key, then a key pointing at a different module, then any other
// attribute. The query router asks them in that order.
package classify

import "strings"

const (
	idSuffix    = "id"
	activityKey = "activityid"
	ownerKey    = "smownerid"
)

// activityModules share one identifier field instead of a per-module one.
var activityModules = map[string]bool{
	"Calls":  true,
	"Events": true,
	"Tasks":  true,
}

// relationships lists, per module, the fields it can be searched by through
// the related-record lookup.
var relationships = map[string][]string{
	"Leads":          {"email"},
	"Accounts":       {"accountid", "accountname"},
	"Contacts":       {"contactid", "accountid", "vendorid", "email"},
	"Potentials":     {"potentialid", "accountid", "campaignid", "contactid", "potentialname"},
	"Campaigns":      {"campaignid", "campaignname"},
	"Cases":          {"caseid", "productid", "accountid", "potentialid"},
	"Solutions":      {"solutionid", "productid"},
	"Products":       {"productid", "vendorid", "productname"},
	"Purchase Order": {"purchaseorderid", "contactid", "vendorid"},
	"Quotes":         {"quoteid", "potentialid", "accountid", "contactid"},
	"Sales Orders":   {"salesorderid", "potentialid", "accountid", "contactid", "quoteid"},
	"Invoices":       {"invoiceid", "accountid", "salesorderid", "contactid"},
	"Vendors":        {"vendorid", "vendorname"},
	"Tasks":          {"taskid"},
	"Events":         {"eventid"},
	"Notes":          {"notesid"},
}

// Singular lower-cases module, drops spaces and a trailing "s":
// "Sales Orders" becomes "salesorder".
func Singular(module string) string {
	s := strings.ToLower(strings.ReplaceAll(module, " ", ""))
	return strings.TrimSuffix(s, "s")
}

// PrimaryKey returns the identifier field name of module.
func PrimaryKey(module string) string {
	if activityModules[module] {
		return activityKey
	}
	return Singular(module) + idSuffix
}

// IsPrimaryKey reports whether field is module's own identifier.
func IsPrimaryKey(module, field string) bool {
	if module == "" || field == "" {
		return false
	}
	f := strings.ToLower(field)
	if f == idSuffix {
		return true
	}
	if activityModules[module] && f == activityKey {
		return true
	}
	return strings.TrimSuffix(f, idSuffix) == Singular(module)
}

// IsRelatedKey reports whether field looks like an identifier of a module
// other than module: any field containing "id" that is not module's own key.
// It is never true for a field IsPrimaryKey accepts.
func IsRelatedKey(module, field string) bool {
	if module == "" || field == "" {
		return false
	}
	f := strings.ToLower(field)
	if !strings.Contains(f, idSuffix) {
		return false
	}
	return !IsPrimaryKey(module, f)
}

// IsValidRelated reports whether module may be searched by field through the
// related-record lookup. The owner reference is never accepted.
func IsValidRelated(module, field string) bool {
	f := strings.ToLower(field)
	if f == ownerKey {
		return false
	}
	for _, allowed := range relationships[module] {
		if allowed == f {
			return true
		}
	}
	return false
}

// RelatedFields returns a copy of the relationship entry for module.
func RelatedFields(module string) []string {
	return append([]string(nil), relationships[module]...)
}

// Modules returns every module with a relationship entry.
func Modules() []string {
	out := make([]string, 0, len(relationships))
	for m := range relationships {
		out = append(out, m)
	}
	return out
}
