package stats

// The snapshot battery. Every query is read-only, scoped to
// current_database() where that makes sense, and safe to run against
// any supported server version.

const queryDatabaseMeta = `
SELECT pg_catalog.pg_get_userbyid(d.datdba) AS owner,
       pg_catalog.pg_database_size(d.datname) AS size_bytes
FROM pg_catalog.pg_database d
WHERE d.datname = current_database()`

const queryConnectionStates = `
SELECT COALESCE(state, 'unknown') AS state, count(*)::int AS sessions
FROM pg_stat_activity
WHERE datname = current_database()
GROUP BY 1
ORDER BY 2 DESC, 1`

const queryTopTables = `
SELECT c.relname,
       pg_total_relation_size(c.oid) AS total_bytes
FROM pg_catalog.pg_class c
JOIN pg_catalog.pg_namespace n ON n.oid = c.relnamespace
WHERE c.relkind = 'r'
  AND n.nspname NOT IN ('pg_catalog', 'information_schema')
ORDER BY 2 DESC
LIMIT $1`

const queryExtensionCount = `
SELECT count(*)::int FROM pg_catalog.pg_extension`

const queryObjectCounts = `
SELECT
  (SELECT count(*)::int FROM information_schema.schemata
     WHERE schema_name NOT IN ('pg_catalog', 'information_schema')
       AND schema_name NOT LIKE 'pg_toast%') AS schemas,
  (SELECT count(*)::int FROM information_schema.tables
     WHERE table_schema NOT IN ('pg_catalog', 'information_schema')
       AND table_type = 'BASE TABLE') AS tables,
  (SELECT count(*)::int FROM information_schema.views
     WHERE table_schema NOT IN ('pg_catalog', 'information_schema')) AS views,
  (SELECT count(*)::int FROM information_schema.routines
     WHERE routine_schema NOT IN ('pg_catalog', 'information_schema')) AS functions,
  (SELECT count(*)::int FROM information_schema.sequences
     WHERE sequence_schema NOT IN ('pg_catalog', 'information_schema')) AS sequences`

const queryActiveQueries = `
SELECT pid,
       COALESCE(usename, '') AS usename,
       COALESCE(state, '') AS state,
       query_start,
       COALESCE((now() - query_start)::text, '') AS duration,
       query
FROM pg_stat_activity
WHERE datname = current_database()
  AND state <> 'idle'
  AND pid <> pg_backend_pid()
  AND query_start IS NOT NULL
ORDER BY query_start`

const queryBlockingLocks = `
SELECT blocked.pid,
       COALESCE(blocked.usename, '') AS blocked_user,
       blocking.pid,
       COALESCE(blocking.usename, '') AS blocking_user,
       COALESCE(l.mode, '') AS mode,
       COALESCE(l.relation::regclass::text, '') AS relation,
       blocked.query,
       blocking.query
FROM pg_stat_activity blocked
JOIN LATERAL unnest(pg_blocking_pids(blocked.pid)) AS b(pid) ON true
JOIN pg_stat_activity blocking ON blocking.pid = b.pid
LEFT JOIN pg_locks l ON l.pid = blocked.pid AND NOT l.granted
WHERE blocked.datname = current_database()
ORDER BY blocked.pid`

const queryCounters = `
SELECT xact_commit, xact_rollback, blks_read, blks_hit
FROM pg_stat_database
WHERE datname = current_database()`

// Drill-down listings. All columns are cast to text so rows can be
// rendered directly.

const queryDetailTables = `
SELECT n.nspname::text,
       c.relname::text,
       pg_catalog.pg_get_userbyid(c.relowner)::text,
       pg_size_pretty(pg_total_relation_size(c.oid))::text
FROM pg_catalog.pg_class c
JOIN pg_catalog.pg_namespace n ON n.oid = c.relnamespace
WHERE c.relkind = 'r'
  AND n.nspname NOT IN ('pg_catalog', 'information_schema')
ORDER BY 1, 2`

const queryDetailViews = `
SELECT table_schema::text, table_name::text
FROM information_schema.views
WHERE table_schema NOT IN ('pg_catalog', 'information_schema')
ORDER BY 1, 2`

const queryDetailFunctions = `
SELECT routine_schema::text,
       routine_name::text,
       COALESCE(data_type, '')::text
FROM information_schema.routines
WHERE routine_schema NOT IN ('pg_catalog', 'information_schema')
ORDER BY 1, 2`

const queryCancelBackend = `SELECT pg_cancel_backend($1)`

const queryTerminateBackend = `SELECT pg_terminate_backend($1)`
