package storage

// Store is the local durable store: four independent tables behind one
// facade plus sync metadata.
type Store interface {
	TreeCache
	SpeciesCache
	EditQueue
	RegistrationQueue
	MetadataStorage

	Close() error
}
