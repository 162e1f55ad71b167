package scene

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/mosvald/vox_scene_browser/utils"
	"github.com/mosvald/vox_scene_browser/vox"
)

// TransformFromFrame converts a transform frame from MagicaVoxel's
// Z-up, mirrored-X space into engine space. The rotation is extracted
// as a quaternion, its axis remapped the same way as translations, and
// recombined with whatever +-1 scale the packed orientation carried.
// The result is translation * (rotation * scale).
func TransformFromFrame(frame *vox.Frame, voxelSize float32) mgl32.Mat4 {
	position, ok := frame.Translation()
	if !ok {
		return mgl32.Ident4()
	}

	translation := mgl32.Translate3D(
		-float32(position[0])*voxelSize,
		float32(position[2])*voxelSize,
		float32(position[1])*voxelSize,
	)

	rotation := mgl32.Ident4()
	if packed, ok := frame.Rotation(); ok {
		quat, scale := packed.QuatScale()
		axis, angle := utils.QuatToAxisAngle(quat)
		converted := mgl32.Vec3{-axis.X(), axis.Z(), axis.Y()}
		rotation = mgl32.HomogRotate3D(angle, converted).
			Mul4(mgl32.Scale3D(scale.X(), scale.Y(), scale.Z()))
	}

	return translation.Mul4(rotation)
}
