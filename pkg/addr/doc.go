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

/*
Package addr contains the naming and addressing types of a DIF.

An IPC process is identified inside its DIF by a numeric Address. Addresses
are assigned by the DIF and may change over the lifetime of the process.

Applications are identified by an AppName made of four components: process
name, process instance, entity name and entity instance. The canonical
string form joins the components with '|' and drops trailing empty
components, e.g. "app1|1" or "b.IPCP|1|mgmt".
*/
package addr
