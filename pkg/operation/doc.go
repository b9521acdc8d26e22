// Copyright 2025 walteh LLC
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

/*
Package operation runs data transfers between external systems.

	+-------------+      +------------+      +------------+
	|  Resolver   | ---> | Downloader | ---> |  Uploader  |
	| (registry)  |      |  (source)  |      |   (dest)   |
	+-------------+      +------------+      +------------+

🎯 Purpose:
- Resolves the downloader and the uploader for a request
- Downloads the record, then uploads it with the destination parameters
- Reports exactly one outcome per transfer in the log and in metrics

🔄 Flow:
1. Tag the context logger with a transfer id
2. Apply the optional transfer timeout
3. Resolve both sides before any network call
4. Download, then upload

⚡ Async:
Start runs a transfer in the background and returns a Pending. Wait is the
only place that blocks and can be called any number of times.

🔍 Example:

	o, _ := operation.New(reg, operation.WithTimeout(time.Minute))
	p := o.Start(ctx, operation.Request{
		SourceSystem:      "github",
		DestinationSystem: "freshdesk",
		DataType:          data.TypeUser,
		SourceParams:      src,
		DestinationParams: dst,
	})
	if err := p.Wait(); err != nil {
		return err
	}
*/
package operation
