// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2023-2026 Nicholas R. Perez

package store

import _ "modernc.org/sqlite"

const driverName = "sqlite"

// MemoryDSN opens a private in-memory database that lives as long as its
// single connection.
const MemoryDSN = ":memory:"
