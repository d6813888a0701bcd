// Package jsonkit provides:
//
// - A JSON tree model (Node) that keeps object order and number form
// - Total coercion of Go values into trees (ValueOf) and balanced builders
// - Functional helpers over arrays and objects (Map, Filter, Merge, PurgeNulls, ...)
// - Collectors that fold sequences into arrays or objects, sequentially or in parallel
// - A structured Error that renders into the {"status":"nok","error":...} envelope
//
// Design policy:
// - Keep only public APIs in the root package; put detailed implementations under internal/.
// - Place text and YAML conversion under codec/, validation under assure/ and
//   expression predicates under query/. The CLI lives in cmd/jsonkit.
// - Prefer black-box testing against public APIs.
//
// Typical usage:
//
//	n := jsonkit.ObjectOf(jsonkit.KV("name", "ada"), jsonkit.KV("tags", []string{"x"}))
//	adults, err := jsonkit.FilterObjects(people, func(p *jsonkit.Node) bool {
//		age, _ := p.Get("age").Int64()
//		return age >= 18
//	})
//
//	if err := assure.Fields(req, "id", "name"); err != nil {
//		e, _ := jsonkit.AsError(err)
//		body, _ := e.MarshalJSON() // {"status":"nok","error":"Found a field that is missing.",...}
//	}
package jsonkit
