package common

import (
	"math/rand"
	"os"
	"path"
	"path/filepath"
	"strconv"
)

func MkdirForFile(fileName string) error {
	if err := os.MkdirAll(filepath.Dir(fileName), os.ModePerm); err != nil {
		return err
	}
	return nil
}

func OpenTempFile(fullPath string) (f *os.File, err error) {
	fileNameTmp := fullPath + "." + strconv.Itoa(rand.Int())
	return os.OpenFile(fileNameTmp, os.O_RDWR|os.O_CREATE|os.O_EXCL, os.ModePerm)
}

// CreateExclusiveReadOnly creates fullPath with O_CREAT|O_EXCL and mode 0400:
// a collision with an existing file is always a bug, never something to
// silently overwrite. The driver's Generator and specialize.Compiler create
// their temp files with ioutil.CreateExclusive (mode 0600) instead.
func CreateExclusiveReadOnly(fullPath string) (*os.File, error) {
	return os.OpenFile(fullPath, os.O_RDWR|os.O_CREATE|os.O_EXCL, 0400)
}

func ReplaceFileExt(fileName string, newExt string) string {
	logExt := path.Ext(fileName)
	return fileName[0:len(fileName)-len(logExt)] + newExt
}
