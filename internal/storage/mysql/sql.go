package mysql

// -----------------------------------------------------------------------------
// WRITES
// -----------------------------------------------------------------------------

const insertUserSQL = `
INSERT INTO users
  (username, password, email, first_name, last_name, age, photo, user_role, phone, country_id, is_active)
VALUES
  (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
`

const insertCountrySQL = `INSERT INTO countries (country_name, country_image) VALUES (?, ?)`

const insertCitySQL = `INSERT INTO cities (city_name, city_image, country_id) VALUES (?, ?, ?)`

const insertServiceSQL = `INSERT INTO services (service_name, service_image) VALUES (?, ?)`

const insertHotelSQL = `
INSERT INTO hotels
  (user_id, owner_id, country_id, city_id, hotel_name, street, postal_code, hotel_stars, hotel_video, description)
VALUES
  (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
`

const insertHotelServiceSQL = `INSERT INTO hotel_services (hotel_id, service_id) VALUES (?, ?)`

const insertHotelImageSQL = `INSERT INTO hotel_images (hotel_id, image) VALUES (?, ?)`

const insertRoomSQL = `
INSERT INTO rooms
  (hotel_id, room_number, room_type, room_status, price, description)
VALUES
  (?, ?, ?, ?, ?, ?)
`

const insertRoomImageSQL = `INSERT INTO room_images (room_id, image) VALUES (?, ?)`

// created_date falls back to now when the caller leaves it zero.
const insertReviewSQL = `
INSERT INTO reviews (user_id, hotel_id, stars, text, created_date)
VALUES (?, ?, ?, ?, COALESCE(?, CURRENT_TIMESTAMP))
`

const insertBookingSQL = `
INSERT INTO bookings (user_id, hotel_id, room_id, check_in, check_out)
VALUES (?, ?, ?, ?, ?)
`

// created_date is immutable; it is never part of the SET list.
const updateBookingSQL = `
UPDATE bookings
SET user_id = ?, hotel_id = ?, room_id = ?, check_in = ?, check_out = ?
WHERE id = ?
`

const (
	deleteCountrySQL = `DELETE FROM countries WHERE id = ?`
	deleteHotelSQL   = `DELETE FROM hotels WHERE id = ?`
	deleteRoomSQL    = `DELETE FROM rooms WHERE id = ?`
	deleteBookingSQL = `DELETE FROM bookings WHERE id = ?`
)

const insertRevokedTokenSQL = `
INSERT INTO token_blacklist (jti, user_id, token_type, expires_at)
VALUES (?, ?, ?, ?)
`

const purgeRevokedTokensSQL = `DELETE FROM token_blacklist WHERE expires_at < ?`

// -----------------------------------------------------------------------------
// READ QUERIES
// -----------------------------------------------------------------------------

const userColumns = `
  id, username, password, email, first_name, last_name, age, photo,
  user_role, phone, country_id, is_active, date_registered`

const selectUserSQL = `SELECT` + userColumns + ` FROM users`

const selectCitySQL = `
SELECT
  c.id, c.city_name, c.city_image, c.country_id,
  co.id            AS 'country.id',
  co.country_name  AS 'country.country_name',
  co.country_image AS 'country.country_image'
FROM cities c
JOIN countries co ON co.id = c.country_id`

// Review stats are aggregated in the same statement so the list rating is
// computed from the review set at read time.
const hotelSummaryFrom = `
FROM hotels h
JOIN cities c     ON c.id = h.city_id
JOIN countries co ON co.id = h.country_id
LEFT JOIN (
  SELECT hotel_id, COUNT(*) AS cnt, SUM(stars) AS total
  FROM reviews
  GROUP BY hotel_id
) rs ON rs.hotel_id = h.id`

const hotelSummaryColumns = `
SELECT
  h.id, h.user_id, h.owner_id, h.country_id, h.city_id, h.hotel_name, h.street,
  h.postal_code, h.hotel_stars, h.hotel_video, h.description,
  c.id             AS 'city.id',
  c.city_name      AS 'city.city_name',
  c.city_image     AS 'city.city_image',
  c.country_id     AS 'city.country_id',
  co.id            AS 'country.id',
  co.country_name  AS 'country.country_name',
  co.country_image AS 'country.country_image',
  COALESCE(rs.cnt, 0)   AS 'rating.count',
  COALESCE(rs.total, 0) AS 'rating.sum'`

const getHotelSQL = hotelSummaryColumns + `,
  o.id        AS 'owner.id',
  o.username  AS 'owner.username',
  o.user_role AS 'owner.user_role'` + hotelSummaryFrom + `
JOIN users o ON o.id = h.owner_id
WHERE h.id = ?`

const hotelImagesSQL = `SELECT id, hotel_id, image FROM hotel_images WHERE hotel_id IN (?) ORDER BY id`

const hotelServicesSQL = `
SELECT s.id, s.service_name, s.service_image
FROM services s
JOIN hotel_services hs ON hs.service_id = s.id
WHERE hs.hotel_id = ?
ORDER BY s.id`

const roomColumns = `
  rm.id, rm.hotel_id, rm.room_number, rm.room_type, rm.room_status, rm.price, rm.description`

const hotelRoomsSQL = `SELECT` + roomColumns + ` FROM rooms rm WHERE rm.hotel_id = ? ORDER BY rm.id`

const getRoomSQL = `SELECT` + roomColumns + `,
  h.id         AS 'hotel.id',
  h.hotel_name AS 'hotel.hotel_name'
FROM rooms rm
JOIN hotels h ON h.id = rm.hotel_id
WHERE rm.id = ?`

const roomImagesSQL = `SELECT id, room_id, image FROM room_images WHERE room_id = ? ORDER BY id`

const roomHotelSQL = `SELECT hotel_id FROM rooms WHERE id = ?`

const selectReviewSQL = `
SELECT
  r.id, r.user_id, r.hotel_id, r.stars, r.text, r.created_date,
  u.id             AS 'author.id',
  u.username       AS 'author.username',
  u.photo          AS 'author.photo',
  u.user_role      AS 'author.user_role',
  h.id             AS 'hotel.id',
  h.hotel_name     AS 'hotel.hotel_name',
  co.id            AS 'country.id',
  co.country_name  AS 'country.country_name',
  co.country_image AS 'country.country_image'
FROM reviews r
JOIN users u      ON u.id = r.user_id
JOIN hotels h     ON h.id = r.hotel_id
JOIN countries co ON co.id = h.country_id`

const selectBookingSQL = `
SELECT
  b.id, b.user_id, b.hotel_id, b.room_id, b.check_in, b.check_out, b.created_date,
  u.id           AS 'user.id',
  u.username     AS 'user.username',
  u.user_role    AS 'user.user_role',
  h.id           AS 'hotel.id',
  h.hotel_name   AS 'hotel.hotel_name',
  rm.id          AS 'room.id',
  rm.room_number AS 'room.room_number'
FROM bookings b
JOIN users u   ON u.id = b.user_id
JOIN hotels h  ON h.id = b.hotel_id
JOIN rooms rm  ON rm.id = b.room_id`

const revokedTokenSQL = `SELECT COUNT(*) FROM token_blacklist WHERE jti = ?`
