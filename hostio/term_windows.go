// This file is part of KXN.
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

//go:build windows

package hostio

import "github.com/pkg/errors"

// setRawIO is not implemented on windows: it always returns an error,
// so NewStdioHost(true) fails there. NewStdioHost(false) leaves the
// console's own line buffering in place.
func setRawIO() (func(), error) {
	return nil, errors.New("raw IO not supported on windows")
}
