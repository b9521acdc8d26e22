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
Package config loads the optional datatransfer configuration file.

	            +-------------+
	            |   Config    |
	            +------+------+
	                   |
	     +-------------+-------------+
	     |             |             |
	+----+----+   +----+----+   +----+----+
	|   HCL   |   |  YAML   |   |  JSON   |
	+---------+   +---------+   +---------+

🎯 Purpose:
- Tunes the transfer timeout and the shared retry policy
- Points gateways at alternate endpoints (GitHub Enterprise, Freshdesk hosts)
- Supplies properties such as API tokens when they are not in the environment

🔄 Flow:
1. Load a file, or Discover .datatransfer.{hcl,yaml,yml,json} in a directory
2. Parse with the parser registered for the extension
3. Validate and fill defaults
4. Build a PropertySource chain: environment, env file, properties block

🔍 Example:

	timeout = "30s"

	retry {
		max_retries     = 5
		initial_backoff = "500ms"
	}

	properties = {
		GITHUB_TOKEN = env.GH_TOKEN
	}
*/
package config
