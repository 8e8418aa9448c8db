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


package server

import (
	"mime"
	"net/http"
	"slices"
	"strings"
)

const (
	// DefaultAPIVersion is served when the client does not ask for one.
	DefaultAPIVersion = "v1"

	// vendorMediaType is the media type prefix of versioned responses, as in
	// application/vnd.nvidia.scoreboard.v1+json.
	vendorMediaType = "application/vnd.nvidia.scoreboard"

	headerAPIVersion = "X-API-Version"
)

var supportedAPIVersions = []string{"v1"}

// negotiateAPIVersion picks the first supported version named by the Accept
// header, either as a media type suffix (vnd.nvidia.scoreboard.v1+json) or
// as a version parameter (vnd.nvidia.scoreboard+json; version=v1).
func negotiateAPIVersion(r *http.Request) string {
	for _, entry := range strings.Split(r.Header.Get("Accept"), ",") {
		mediaType, params, err := mime.ParseMediaType(strings.TrimSpace(entry))
		if err != nil || !strings.HasPrefix(mediaType, vendorMediaType) {
			continue
		}
		version := params["version"]
		if rest, ok := strings.CutPrefix(mediaType, vendorMediaType+"."); ok {
			version, _, _ = strings.Cut(rest, "+")
		}
		if isValidAPIVersion(version) {
			return version
		}
	}
	return DefaultAPIVersion
}

func isValidAPIVersion(version string) bool {
	return slices.Contains(supportedAPIVersions, version)
}

// SetAPIVersionHeader reports the served API version to the client.
func SetAPIVersionHeader(w http.ResponseWriter, version string) {
	w.Header().Set(headerAPIVersion, version)
}
