package sql

// Type should match the package name
const Type = "sql"

// table holds one row per stored run.
const table = "runs"
