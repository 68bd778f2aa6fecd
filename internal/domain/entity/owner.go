package entity

import "time"

// Owner representa al propietario de las mascotas: la parte facturada.
type Owner struct {
	ID        string
	ClinicID  string
	FirstName string
	LastName  string
	Email     string
	Phone     string
	Address   string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// FullName devuelve nombre y apellido para despliegue en listados.
func (o *Owner) FullName() string {
	if o.LastName == "" {
		return o.FirstName
	}
	return o.FirstName + " " + o.LastName
}
