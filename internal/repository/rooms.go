package repository

import (
	"github.com/sysu-ecnc-dev/course-scheduler/backend/internal/domain"
)

// ListRooms 返回所有教室（包括停用的）
func (r *Repository) ListRooms() ([]*domain.Room, error) {
	query := `
		SELECT
			id,
			code,
			max_capacity,
			is_active
		FROM rooms
		ORDER BY id
	`

	ctx, cancel := r.queryContext()
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	rooms := []*domain.Room{}
	for rows.Next() {
		var room domain.Room
		if err := rows.Scan(&room.ID, &room.Code, &room.MaxCapacity, &room.IsActive); err != nil {
			return nil, err
		}
		rooms = append(rooms, &room)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return rooms, nil
}

func (r *Repository) CreateRoom(room *domain.Room) error {
	query := `
		INSERT INTO rooms (code, max_capacity, is_active)
		VALUES ($1, $2, $3)
		RETURNING id
	`

	ctx, cancel := r.queryContext()
	defer cancel()

	if err := r.dbpool.QueryRowContext(ctx, query, room.Code, room.MaxCapacity, room.IsActive).Scan(&room.ID); err != nil {
		return err
	}

	return nil
}
