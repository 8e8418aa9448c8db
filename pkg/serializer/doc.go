// Copyright (c) 2025, NVIDIA CORPORATION.  All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package serializer renders summary tables and documents in multiple
// formats and reads JSON or YAML input files.
//
// # Formats
//
//   - table: aligned plain text (default)
//   - html: an HTML table
//   - latex: a booktabs tabular
//   - json, yaml: structured encodings
//
// Values implementing Grid render as labeled tables in the table, html and
// latex formats. Other values render as flattened FIELD/VALUE pairs in the
// table format and are rejected by html and latex. Cell text is written
// verbatim, so glyphs such as "±" and LaTeX math such as "$\pm$" pass
// through unchanged.
//
// # Usage
//
//	w := serializer.NewFileWriterOrStdout(serializer.FormatLaTeX, "results.tex")
//	defer w.Close()
//	if err := w.Serialize(ctx, table); err != nil {
//	    return err
//	}
//
// Reading:
//
//	batch, err := serializer.FromFile[recorder.Batch]("runs.yaml")
//
// Paths beginning with http:// or https:// are downloaded first.
//
// # HTTP
//
// RespondJSON and Respond write handler responses, rendering fully before
// any header is written.
package serializer
