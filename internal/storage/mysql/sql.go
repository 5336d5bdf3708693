package mysql

// Each slot row is replaced wholesale; there is no partial update path.
const upsertSlotSQL = `
INSERT INTO kv_slots
  (slot_key, payload)
VALUES
  (?, ?)
ON DUPLICATE KEY UPDATE
  payload    = VALUES(payload),
  updated_at = CURRENT_TIMESTAMP
`

const getSlotSQL = `
SELECT payload
FROM kv_slots
WHERE slot_key = ?
`

const deleteSlotSQL = `
DELETE FROM kv_slots
WHERE slot_key = ?
`
