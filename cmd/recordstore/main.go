package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/fulldump/goconfig"

	"github.com/fulldump/recordstore/bootstrap"
	"github.com/fulldump/recordstore/configuration"
)

var banner = `
 ____                        _ ____  _                 
|  _ \ ___  ___ ___  _ __ __| / ___|| |_ ___  _ __ ___ 
| |_) / _ \/ __/ _ \| '__/ _' \___ \| __/ _ \| '__/ _ \
|  _ <  __/ (_| (_) | | | (_| |___) | || (_) | | |  __/
|_| \_\___|\___\___/|_|  \__,_|____/ \__\___/|_|  \___|
                                  version ` + bootstrap.VERSION + `
`

func main() {

	c := configuration.Default()
	goconfig.Read(c)

	if c.Version {
		fmt.Println("Version:", bootstrap.VERSION)
		return
	}

	if c.ShowBanner {
		fmt.Println(banner)
	}

	if c.ShowConfig {
		e := json.NewEncoder(os.Stdout)
		e.SetIndent("", "    ")
		e.Encode(c)
	}

	start, _ := bootstrap.Bootstrap(c)
	start()
}
