// SPDX-License-Identifier: EPL-2.0

package audiotest

import (
	"sync"

	"github.com/ik5/sndbuf/audio"
	"github.com/ik5/sndbuf/device"
)

// Device is a device.Bank that counts calls and can be told to fail.
type Device struct {
	*device.Bank

	// GenErr and UploadErr, when set, are returned instead of calling the bank.
	GenErr    error
	UploadErr error

	mtx     sync.Mutex
	gens    int
	uploads int
	deletes int
}

func NewDevice() *Device {
	return &Device{Bank: device.NewBank()}
}

func (d *Device) GenBuffer() (device.BufferID, error) {
	d.mtx.Lock()
	d.gens++
	d.mtx.Unlock()

	if d.GenErr != nil {
		return device.NoBuffer, d.GenErr
	}

	return d.Bank.GenBuffer()
}

func (d *Device) BufferData(id device.BufferID, format audio.Format, samples []int16, sampleRate int) error {
	d.mtx.Lock()
	d.uploads++
	d.mtx.Unlock()

	if d.UploadErr != nil {
		return d.UploadErr
	}

	return d.Bank.BufferData(id, format, samples, sampleRate)
}

func (d *Device) DeleteBuffer(id device.BufferID) error {
	d.mtx.Lock()
	d.deletes++
	d.mtx.Unlock()

	return d.Bank.DeleteBuffer(id)
}

// Counts returns the number of GenBuffer, BufferData and DeleteBuffer calls.
func (d *Device) Counts() (gens, uploads, deletes int) {
	d.mtx.Lock()
	defer d.mtx.Unlock()

	return d.gens, d.uploads, d.deletes
}
