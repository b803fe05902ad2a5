package geom

import "math"

type Vector struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
	Z float64 `json:"z" yaml:"z"`
}

func NewVector(x, y, z float64) Vector {
	return Vector{x, y, z}
}

func (v Vector) IsZero() bool { return v.X == 0 && v.Y == 0 && v.Z == 0 }

func (v Vector) Magnitude() float64 {
	return math.Sqrt(v.X*v.X + v.Y*v.Y + v.Z*v.Z)
}

func (v Vector) Sub(o Vector) Vector {
	return Vector{v.X - o.X, v.Y - o.Y, v.Z - o.Z}
}

func (v Vector) Mul(k float64) Vector {
	return Vector{v.X * k, v.Y * k, v.Z * k}
}

func Distance(from, to Vector) float64 {
	return from.Sub(to).Magnitude()
}
