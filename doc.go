// Package zohocrm is a client for the Zoho CRM XML API.
//
// Records are handled as [models.Record] values: ordered field key to native
// value pairs. The client turns them into the service's row documents and
// back, coercing values to the declared type of each field.
//
// # Field metadata
//
// Field types are loaded once by [New] for every configured module, either
// from the service itself through [RemoteSource], from a YAML file named by
// the configuration, or from any [schema.Source] passed with
// [WithSchemaSource]. The metadata never changes for the life of a client.
//
// # Finding records
//
// [Client.FindRecords] picks the lookup from the field being searched:
//
//   - the module's own identifier (or "id") is looked up directly;
//   - another module's identifier goes through the related-record search,
//     and only for the relationships the module supports;
//   - any other field is a search of the form (field|condition|value).
//
// The three lookups are also available on their own.
//
// # Errors
//
// A non-2xx reply is a [TransportError]. A reply carrying a service error
// code is a [ServiceError], except the codes the service uses for "no data"
// which yield an empty result. Both match their sentinels in
// [github.com/rubyzoho/zohocrm.go/pkg/constants] with errors.Is.
package zohocrm
