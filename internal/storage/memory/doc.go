// Package memory provides the development backend's user and task stores.
//
// Records live in sharded concurrent maps. When a storage.KVEngine is
// supplied, every write is mirrored to it as JSON and the maps are
// reloaded from it on open, so a backend restarted on the same data
// directory keeps its users and tasks.
//
// Stores return copies; callers may modify what they get back.
package memory
