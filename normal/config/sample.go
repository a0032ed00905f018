// Copyright 2026 The rinaproto Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//   http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package config

const idSample = "normal-1"

const ipcpSample = `
# The name of the IPC process. (required)
name = "normal.IPCP|1"

# The DIF the IPC process belongs to. (required)
dif = "n.DIF"

# The initial address of the IPC process. If not set, applications cannot
# register until an address is assigned through the management API.
address = "0x1"

# The address the neighbor transport listens on. (default "127.0.0.1:30100")
listen = "127.0.0.1:30100"

# The transport addresses of the neighbors to enroll with. (default [])
neighbors = []

# The period of keepalive requests. "0s" disables keepalives. (default "10s")
keepalive = "10s"

# The number of unanswered keepalive requests after which a neighbor is
# pruned. (default 3)
keepalive_threshold = 3

# The maximum number of entries per update sent to a newly enrolled
# neighbor. (default 10)
sync_chunk = 10

# The capacity of the outbound queue of each neighbor. Updates are dropped
# when the queue is full. (default 64)
queue_size = 64

# The time after which a send to a neighbor is abandoned. (default "5s")
send_timeout = "5s"

# The pause between attempts to reach a neighbor. (default "5s")
redial_interval = "5s"

# The enabled feature flags. Supported: local_only_unregister. (default [])
features = []
`
