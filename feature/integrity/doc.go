// Package integrity runs the survey referential integrity check and its
// supporting health checks.
//
// The Service loads the respondent and pregnancy files of a survey.Profile,
// groups pregnancies by case id and verifies that every respondent's
// reported pregnancy count matches. Runs can be saved to the history store
// and reports uploaded to the storage bucket.
//
// # Checks Provided
//
//   - Check: the referential integrity check itself.
//   - Sources: verifies that the dictionaries and data files are present.
//   - Schema: parses both dictionaries and verifies the key and count fields.
//   - Structure: checks the survey and reports folders in the bucket (supports ?fix=true).
//   - History: compares the run history tables with the store models.
//
// # HTTP Endpoints
//
//   - POST /integrity/check : Runs the check. Body {"max_rows", "save", "fail_fast"}.
//   - GET /integrity/sources : Runs the sources check.
//   - GET /integrity/schema : Runs the dictionary check.
//   - GET /integrity/structure : Runs the structure check.
//   - GET /integrity/history : Runs the history table check.
//   - GET /integrity/runs : Lists saved runs (supports ?limit=N).
//   - GET /integrity/runs/:id : Returns one saved run with its violations.
package integrity
