// Package output renders command results for taskadmin-cli.
//
// Results are written as aligned tables (the default), JSON or YAML.
// Tables are built from *Table values, from values implementing Tabler,
// or by reflection over structs and slices of structs using their json
// field names. Struct fields tagged table:"wide" only appear with --wide
// and fields tagged table:"-" never do.
//
// Charts draws horizontal bar charts for the statistics screen and
// Spinner animates long-running requests on a terminal.
package output
